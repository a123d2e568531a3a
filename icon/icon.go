// Package icon renders status symbols in the variant picked by icons.variant.
package icon

import (
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/key"
)

const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Video
	Link
	Platform
)

type iconDef struct {
	emoji string
	nerd  string
	plain string
}

func (d iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

var icons = map[Icon]iconDef{
	Success:  {emoji: "✅", nerd: "", plain: "+"},
	Fail:     {emoji: "❌", nerd: "", plain: "x"},
	Progress: {emoji: "⏳", nerd: "", plain: "~"},
	Video:    {emoji: "🎬", nerd: "", plain: ">"},
	Link:     {emoji: "🔗", nerd: "", plain: "@"},
	Platform: {emoji: "🌐", nerd: "", plain: "#"},
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	return icons[i].get()
}
