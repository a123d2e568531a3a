package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/filesystem"
	"github.com/squidlr/squidlr/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given remembered URLs", t, func() {
		viper.Set(key.CliURLSuggestions, true)

		reel := "https://www.instagram.com/reel/CxOtJ8qNFdN/"
		status := "https://x.com/squidlr/status/1702718497123"

		So(Remember(reel, 1), ShouldBeNil)
		So(Remember(status, 10), ShouldBeNil)

		Convey("Suggestions are ranked", func() {
			s := SuggestMany("https")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, status)
		})

		Convey("Partial input matches fuzzily", func() {
			So(Suggest("instareel").OrEmpty(), ShouldEqual, reel)
		})

		Convey("Remembering again invalidates cached suggestions", func() {
			So(SuggestMany("https")[0], ShouldEqual, status)
			So(Remember(reel, 100), ShouldBeNil)
			So(SuggestMany("https")[0], ShouldEqual, reel)
		})

		Convey("Nothing is suggested when disabled", func() {
			viper.Set(key.CliURLSuggestions, false)
			So(SuggestMany("https"), ShouldBeEmpty)
			So(Suggest("x.com").IsAbsent(), ShouldBeTrue)
		})

		Convey("Blank input is not remembered", func() {
			So(Remember("   ", 1), ShouldBeNil)
			So(SuggestMany(""), ShouldNotContain, "")
		})
	})
}
