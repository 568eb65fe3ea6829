package normalize

import (
	"math"

	"tgcanon/pkg/canon"
)

// ViewOnceTimeout is the autoclear timeout value meaning "destroy after the
// first view" rather than a wall-clock countdown.
const ViewOnceTimeout = math.MaxInt32

// ClassifyTags derives the per-message and cross-peer tag bitsets from the
// assembled attributes and media. It is a pure function: storage re-runs it
// whenever pin or reaction state changes, so the persisted bitsets always
// agree with the persisted attributes.
func ClassifyTags(incoming bool, attributes []canon.Attribute, media []canon.Media, entities []canon.TextEntity, pinned bool) (canon.Tags, canon.GlobalTags) {
	var tags canon.Tags
	var globalTags canon.GlobalTags

	// Short self-destruct timers mark the message as secret; secret media
	// stays out of the media galleries.
	isSecret := false
	for _, attribute := range attributes {
		switch typed := attribute.(type) {
		case canon.AutoclearTimeout:
			if secretTimeout(typed.Timeout) {
				isSecret = true
			}
		case canon.AutoremoveTimeout:
			if secretTimeout(typed.Timeout) {
				isSecret = true
			}
		case canon.ConsumablePersonalMention:
			if !typed.Consumed && !typed.Pending {
				tags = tags.With(canon.TagUnseenPersonalMessage)
			}
		case canon.Reactions:
			if typed.HasUnseen {
				tags = tags.With(canon.TagUnseenReaction)
			}
		}
	}

	if pinned {
		tags = tags.With(canon.TagPinned)
	}

	for _, value := range media {
		switch typed := value.(type) {
		case canon.Photo:
			if !isSecret {
				tags = tags.With(canon.TagPhotoOrVideo | canon.TagPhoto)
			}
		case canon.File:
			tags = tags.With(classifyFile(typed, isSecret))
		case canon.Webpage:
			if typed.Loaded {
				tags = tags.With(canon.TagWebPage)
			}
		case canon.Map:
			if typed.LiveBroadcastingTimeout != nil {
				tags = tags.With(canon.TagLiveLocation)
			}
		case canon.Action:
			if call, ok := typed.Action.(canon.PhoneCall); ok {
				globalTags |= canon.GlobalTagCalls
				if incoming && call.DiscardReason == canon.CallDiscardMissed {
					globalTags |= canon.GlobalTagMissedCalls
				}
			}
		}
	}

	if hasLinkEntity(entities) && !tags.Contains(canon.TagWebPage) && !leadsWithWebpage(media) {
		tags = tags.With(canon.TagWebPage)
	}

	return tags, globalTags
}

func secretTimeout(timeout int) bool {
	return timeout > 0 && (timeout <= 60 || timeout == ViewOnceTimeout)
}

// classifyFile refines the generic file tag using the document attributes.
func classifyFile(file canon.File, isSecret bool) canon.Tags {
	refined := canon.TagFile
	hasRefined := true
	isAnimated := false

attributes:
	for _, attribute := range file.Attributes {
		switch typed := attribute.(type) {
		case canon.FileVideo:
			if typed.RoundMessage {
				refined = canon.TagVoiceOrInstantVideo
			} else if !isSecret {
				refined = canon.TagPhotoOrVideo | canon.TagVideo
			} else {
				hasRefined = false
			}
		case canon.FileAudio:
			if typed.Voice || file.IsInstantVideo() {
				refined = canon.TagVoiceOrInstantVideo
			} else {
				refined = canon.TagMusic
			}
			break attributes
		case canon.FileSticker:
			hasRefined = false
			break attributes
		case canon.FileAnimated:
			isAnimated = true
		}
	}

	if isAnimated {
		refined = canon.TagGif
		hasRefined = true
	}
	if file.IsAnimatedSticker() {
		hasRefined = false
	}
	if !hasRefined {
		return 0
	}

	return refined
}

func hasLinkEntity(entities []canon.TextEntity) bool {
	for _, entity := range entities {
		switch entity.Type {
		case canon.EntityURL, canon.EntityTextURL, canon.EntityEmail:
			return true
		}
	}

	return false
}

// leadsWithWebpage reports whether the media list already leads with a
// webpage value; link entities then add nothing.
func leadsWithWebpage(media []canon.Media) bool {
	if len(media) == 0 {
		return false
	}
	_, ok := media[0].(canon.Webpage)

	return ok
}
