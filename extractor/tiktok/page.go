package tiktok

// rehydration mirrors the parts of __UNIVERSAL_DATA_FOR_REHYDRATION__ the extractor reads.
type rehydration struct {
	DefaultScope struct {
		VideoDetail struct {
			StatusCode int    `json:"statusCode"`
			StatusMsg  string `json:"statusMsg"`
			ItemInfo   struct {
				ItemStruct itemStruct `json:"itemStruct"`
			} `json:"itemInfo"`
		} `json:"webapp.video-detail"`
	} `json:"__DEFAULT_SCOPE__"`
}

type itemStruct struct {
	ID         string      `json:"id"`
	Desc       string      `json:"desc"`
	CreateTime flexNumber  `json:"createTime"`
	Author     author      `json:"author"`
	Stats      stats       `json:"stats"`
	Video      videoStruct `json:"video"`
}

type author struct {
	UniqueID    string `json:"uniqueId"`
	Nickname    string `json:"nickname"`
	AvatarThumb string `json:"avatarThumb"`
}

type stats struct {
	DiggCount    int64      `json:"diggCount"`
	ShareCount   int64      `json:"shareCount"`
	CommentCount int64      `json:"commentCount"`
	PlayCount    int64      `json:"playCount"`
	CollectCount flexNumber `json:"collectCount"`
}

type videoStruct struct {
	Duration     int           `json:"duration"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Bitrate      int           `json:"bitrate"`
	Cover        string        `json:"cover"`
	PlayAddr     string        `json:"playAddr"`
	DownloadAddr string        `json:"downloadAddr"`
	BitrateInfo  []bitrateInfo `json:"bitrateInfo"`
}

type bitrateInfo struct {
	Bitrate  int `json:"Bitrate"`
	PlayAddr struct {
		DataSize flexNumber `json:"DataSize"`
		Width    int        `json:"Width"`
		Height   int        `json:"Height"`
		URLList  []string   `json:"UrlList"`
	} `json:"PlayAddr"`
}
