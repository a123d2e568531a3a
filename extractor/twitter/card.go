package twitter

import (
	"strings"

	"github.com/buger/jsonparser"
	"github.com/samber/lo"
)

// CardType is the closed set of card formats the extractor knows about.
type CardType int

const (
	CardUnknown CardType = iota
	CardPoll2ChoiceVideo
	CardPoll3ChoiceVideo
	CardPoll4ChoiceVideo
	CardAmplify
	CardPromoVideoConvo
	CardPromoVideo
	CardVideoDirectMessage
	CardUnified
	CardBroadcast
)

var cardNames = map[CardType]string{
	CardUnknown:            "unknown",
	CardPoll2ChoiceVideo:   "poll2choice_video",
	CardPoll3ChoiceVideo:   "poll3choice_video",
	CardPoll4ChoiceVideo:   "poll4choice_video",
	CardAmplify:            "amplify",
	CardPromoVideoConvo:    "promo_video_convo",
	CardPromoVideo:         "promo_video",
	CardVideoDirectMessage: "video_direct_message",
	CardUnified:            "unified_card",
	CardBroadcast:          "broadcast",
}

var cardsByName = lo.Invert(cardNames)

func (c CardType) String() string {
	return cardNames[c]
}

// substringOrder is tried after an exact lookup fails. Longer names come
// before names they contain. unified_card is deliberately absent.
var substringOrder = []CardType{
	CardPoll2ChoiceVideo,
	CardPoll3ChoiceVideo,
	CardPoll4ChoiceVideo,
	CardPromoVideoConvo,
	CardPromoVideo,
	CardVideoDirectMessage,
	CardAmplify,
	CardBroadcast,
}

// ClassifyCard maps a free-text card name to a CardType. Names such as
// "745291183405076480:broadcast" carry an account prefix, hence the substring fallback.
func ClassifyCard(name string) CardType {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CardUnknown
	}

	if typ, ok := cardsByName[name]; ok {
		return typ
	}

	for _, typ := range substringOrder {
		if strings.Contains(name, cardNames[typ]) {
			return typ
		}
	}
	return CardUnknown
}

// vmapBinding names the binding value holding the VMAP document URL, if the card type uses one.
func (c CardType) vmapBinding() (string, bool) {
	switch c {
	case CardPoll2ChoiceVideo, CardPoll3ChoiceVideo, CardPoll4ChoiceVideo,
		CardPromoVideoConvo, CardPromoVideo, CardVideoDirectMessage:
		return "player_stream_url", true
	case CardAmplify:
		return "amplify_url_vmap", true
	default:
		return "", false
	}
}

// bindingValue returns the "value" object of a card binding. The GraphQL API
// sends binding_values as a list of {key, value}; the legacy API as an object.
func bindingValue(card []byte, key string) ([]byte, bool) {
	values, typ, _, err := jsonparser.Get(card, "binding_values")
	if err != nil {
		return nil, false
	}

	if typ == jsonparser.Object {
		value, _, _, err := jsonparser.Get(values, key)
		return value, err == nil
	}

	var found []byte
	_, _ = jsonparser.ArrayEach(values, func(entry []byte, _ jsonparser.ValueType, _ int, _ error) {
		if found != nil {
			return
		}
		if k, _ := jsonparser.GetString(entry, "key"); k == key {
			found, _, _, _ = jsonparser.Get(entry, "value")
		}
	})
	return found, found != nil
}

func bindingString(card []byte, key string) string {
	value, ok := bindingValue(card, key)
	if !ok {
		return ""
	}
	s, _ := jsonparser.GetString(value, "string_value")
	return s
}

func bindingImage(card []byte, key string) string {
	value, ok := bindingValue(card, key)
	if !ok {
		return ""
	}
	s, _ := jsonparser.GetString(value, "image_value", "url")
	return s
}
