package instagram

type response struct {
	Data struct {
		ShortcodeMedia *shortcodeMedia `json:"xdt_shortcode_media"`
	} `json:"data"`
	Status string `json:"status"`
}

type node struct {
	Typename       string  `json:"__typename"`
	IsVideo        bool    `json:"is_video"`
	VideoURL       string  `json:"video_url"`
	DisplayURL     string  `json:"display_url"`
	VideoDuration  float64 `json:"video_duration"`
	VideoViewCount int64   `json:"video_view_count"`
	VideoPlayCount int64   `json:"video_play_count"`
	Dimensions     struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"dimensions"`
}

type shortcodeMedia struct {
	node
	Shortcode string `json:"shortcode"`
	TakenAt   int64  `json:"taken_at_timestamp"`
	Owner     struct {
		Username      string `json:"username"`
		FullName      string `json:"full_name"`
		ProfilePicURL string `json:"profile_pic_url"`
		IsVerified    bool   `json:"is_verified"`
	} `json:"owner"`
	Caption struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
	Likes struct {
		Count int64 `json:"count"`
	} `json:"edge_media_preview_like"`
	Comments struct {
		Count int64 `json:"count"`
	} `json:"edge_media_to_comment"`
	Children struct {
		Edges []struct {
			Node node `json:"node"`
		} `json:"edges"`
	} `json:"edge_sidecar_to_children"`
}
