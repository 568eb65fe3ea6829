package normalize

import (
	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

// maxExtendedMediaDepth bounds the invoice extended-media recursion; the
// wire contract nests at most one level.
const maxExtendedMediaDepth = 1

// webpageAttributes are the display side channels of a webpage media value.
type webpageAttributes struct {
	ForceLargeMedia *bool
	IsManuallyAdded bool
	IsSafe          bool
}

// mediaResolution is the MediaResolver output: the canonical media value (nil
// for absent/unrecognized media) plus its side channels.
type mediaResolution struct {
	Media           canon.Media
	ExpirationTimer *int
	NonPremium      bool
	HasSpoiler      bool
	Webpage         *webpageAttributes
}

// resolveMedia maps one raw media variant into a canonical media value. The
// owning peer id is needed to build receipt message ids. Variants outside the
// known set resolve to an empty result, never an error.
func resolveMedia(media tg.MessageMediaClass, owner canon.PeerID) mediaResolution {
	return resolveMediaDepth(media, owner, 0)
}

func resolveMediaDepth(media tg.MessageMediaClass, owner canon.PeerID, depth int) mediaResolution {
	if media == nil || depth > maxExtendedMediaDepth {
		return mediaResolution{}
	}

	switch typed := media.(type) {
	case *tg.MessageMediaPhoto:
		wirePhoto, ok := typed.GetPhoto()
		if !ok {
			// Payload withheld: the self-destructing photo expired.
			return mediaResolution{Media: canon.ExpiredContent{Kind: canon.ExpiredPhoto}}
		}
		photo, ok := mapPhoto(wirePhoto)
		if !ok {
			return mediaResolution{}
		}
		resolution := mediaResolution{Media: photo, HasSpoiler: typed.Spoiler}
		if ttl, ok := typed.GetTTLSeconds(); ok {
			resolution.ExpirationTimer = intPtr(ttl)
		}
		return resolution
	case *tg.MessageMediaDocument:
		wireDocument, ok := typed.GetDocument()
		if !ok {
			return mediaResolution{Media: canon.ExpiredContent{Kind: canon.ExpiredFile}}
		}
		file, ok := mapDocument(wireDocument)
		if !ok {
			return mediaResolution{}
		}
		resolution := mediaResolution{
			Media:      file,
			NonPremium: typed.Nopremium,
			HasSpoiler: typed.Spoiler,
		}
		if ttl, ok := typed.GetTTLSeconds(); ok {
			resolution.ExpirationTimer = intPtr(ttl)
		}
		return resolution
	case *tg.MessageMediaGeo:
		return mediaResolution{Media: mapFromGeo(typed.Geo, canon.Map{})}
	case *tg.MessageMediaVenue:
		return mediaResolution{Media: mapFromGeo(typed.Geo, canon.Map{
			Venue: &canon.Venue{
				Title:    typed.Title,
				Address:  typed.Address,
				Provider: typed.Provider,
				ID:       typed.VenueID,
				Type:     typed.VenueType,
			},
		})}
	case *tg.MessageMediaGeoLive:
		value := canon.Map{LiveBroadcastingTimeout: intPtr(typed.Period)}
		if heading, ok := typed.GetHeading(); ok {
			value.Heading = intPtr(heading)
		}
		if radius, ok := typed.GetProximityNotificationRadius(); ok {
			value.LiveProximityNotificationRadius = intPtr(radius)
		}
		return mediaResolution{Media: mapFromGeo(typed.Geo, value)}
	case *tg.MessageMediaContact:
		contact := canon.Contact{
			FirstName:   typed.FirstName,
			LastName:    typed.LastName,
			PhoneNumber: typed.PhoneNumber,
			VCard:       typed.Vcard,
		}
		if typed.UserID != 0 {
			contact.PeerID = peerIDPtr(canon.UserPeer(typed.UserID))
		}
		return mediaResolution{Media: contact}
	case *tg.MessageMediaWebPage:
		webpage, ok := mapWebpage(typed.Webpage)
		if !ok {
			return mediaResolution{}
		}
		attributes := &webpageAttributes{
			IsManuallyAdded: typed.Manual,
			IsSafe:          typed.Safe,
		}
		// Large/small preferences are three-valued: both bits clear means
		// no explicit preference.
		if typed.ForceLargeMedia {
			attributes.ForceLargeMedia = boolPtr(true)
		} else if typed.ForceSmallMedia {
			attributes.ForceLargeMedia = boolPtr(false)
		}
		return mediaResolution{Media: webpage, Webpage: attributes}
	case *tg.MessageMediaGame:
		return mediaResolution{Media: canon.Game{
			ID:          typed.Game.ID,
			ShortName:   typed.Game.ShortName,
			Title:       typed.Game.Title,
			Description: typed.Game.Description,
		}}
	case *tg.MessageMediaInvoice:
		return mediaResolution{Media: mapInvoice(typed, owner, depth)}
	case *tg.MessageMediaPoll:
		return mediaResolution{Media: mapPoll(typed.Poll)}
	case *tg.MessageMediaDice:
		return mediaResolution{Media: canon.Dice{Emoji: typed.Emoticon, Value: typed.Value}}
	case *tg.MessageMediaStory:
		peer, ok := peerID(typed.Peer)
		if !ok {
			return mediaResolution{}
		}
		return mediaResolution{Media: canon.Story{
			Peer:       peer,
			ID:         typed.ID,
			ViaMention: typed.ViaMention,
		}}
	case *tg.MessageMediaGiveaway:
		giveaway := canon.Giveaway{
			OnlyNewSubscribers: typed.OnlyNewSubscribers,
			Quantity:           typed.Quantity,
			UntilDate:          typed.UntilDate,
		}
		for _, channelID := range typed.Channels {
			giveaway.Channels = append(giveaway.Channels, canon.ChannelPeer(channelID))
		}
		if countries, ok := typed.GetCountriesISO2(); ok {
			giveaway.Countries = countries
		}
		if months, ok := typed.GetMonths(); ok {
			giveaway.Months = months
		}
		return mediaResolution{Media: giveaway}
	case *tg.MessageMediaUnsupported:
		return mediaResolution{Media: canon.Unsupported{}}
	case *tg.MessageMediaEmpty:
		return mediaResolution{}
	default:
		// Variants newer than this layer: omit the media, keep the message.
		return mediaResolution{}
	}
}

func mapPhoto(photo tg.PhotoClass) (canon.Photo, bool) {
	typed, ok := photo.(*tg.Photo)
	if !ok {
		return canon.Photo{}, false
	}

	out := canon.Photo{
		ID:          typed.ID,
		Date:        typed.Date,
		HasStickers: typed.HasStickers,
	}
	for _, size := range typed.Sizes {
		switch sized := size.(type) {
		case *tg.PhotoSize:
			out.Sizes = append(out.Sizes, canon.PhotoSize{
				Type:   sized.Type,
				Width:  sized.W,
				Height: sized.H,
				Size:   sized.Size,
			})
		case *tg.PhotoSizeProgressive:
			entry := canon.PhotoSize{Type: sized.Type, Width: sized.W, Height: sized.H}
			if len(sized.Sizes) > 0 {
				entry.Size = sized.Sizes[len(sized.Sizes)-1]
			}
			out.Sizes = append(out.Sizes, entry)
		}
	}

	return out, true
}

func mapDocument(document tg.DocumentClass) (canon.File, bool) {
	typed, ok := document.(*tg.Document)
	if !ok {
		return canon.File{}, false
	}

	file := canon.File{
		ID:       typed.ID,
		Date:     typed.Date,
		MimeType: typed.MimeType,
		Size:     typed.Size,
	}
	for _, attribute := range typed.Attributes {
		switch attr := attribute.(type) {
		case *tg.DocumentAttributeImageSize:
			file.Attributes = append(file.Attributes, canon.FileImageSize{Width: attr.W, Height: attr.H})
		case *tg.DocumentAttributeAnimated:
			file.Attributes = append(file.Attributes, canon.FileAnimated{})
		case *tg.DocumentAttributeSticker:
			file.Attributes = append(file.Attributes, canon.FileSticker{Alt: attr.Alt, Mask: attr.Mask})
		case *tg.DocumentAttributeVideo:
			file.Attributes = append(file.Attributes, canon.FileVideo{
				RoundMessage:      attr.RoundMessage,
				SupportsStreaming: attr.SupportsStreaming,
				Duration:          attr.Duration,
				Width:             attr.W,
				Height:            attr.H,
			})
		case *tg.DocumentAttributeAudio:
			audio := canon.FileAudio{Voice: attr.Voice, Duration: attr.Duration}
			if title, ok := attr.GetTitle(); ok {
				audio.Title = title
			}
			if performer, ok := attr.GetPerformer(); ok {
				audio.Performer = performer
			}
			if waveform, ok := attr.GetWaveform(); ok {
				audio.Waveform = waveform
			}
			file.Attributes = append(file.Attributes, audio)
		case *tg.DocumentAttributeFilename:
			file.Attributes = append(file.Attributes, canon.FileName{Name: attr.FileName})
		case *tg.DocumentAttributeHasStickers:
			file.Attributes = append(file.Attributes, canon.FileHasStickers{})
		case *tg.DocumentAttributeCustomEmoji:
			file.Attributes = append(file.Attributes, canon.FileCustomEmoji{Alt: attr.Alt})
		}
	}

	return file, true
}

// mapFromGeo fills coordinates into a prepared map value. An empty geo point
// yields zero coordinates, matching the wire's own fallback.
func mapFromGeo(geo tg.GeoPointClass, value canon.Map) canon.Map {
	if point, ok := geo.(*tg.GeoPoint); ok {
		value.Latitude = point.Lat
		value.Longitude = point.Long
	}

	return value
}

func mapWebpage(webpage tg.WebPageClass) (canon.Webpage, bool) {
	switch typed := webpage.(type) {
	case *tg.WebPage:
		out := canon.Webpage{
			ID:         typed.ID,
			URL:        typed.URL,
			Loaded:     true,
			DisplayURL: typed.DisplayURL,
		}
		if siteName, ok := typed.GetSiteName(); ok {
			out.SiteName = siteName
		}
		if title, ok := typed.GetTitle(); ok {
			out.Title = title
		}
		if description, ok := typed.GetDescription(); ok {
			out.Description = description
		}
		return out, true
	case *tg.WebPagePending:
		out := canon.Webpage{ID: typed.ID}
		if url, ok := typed.GetURL(); ok {
			out.URL = url
		}
		return out, true
	default:
		return canon.Webpage{}, false
	}
}

func mapInvoice(invoice *tg.MessageMediaInvoice, owner canon.PeerID, depth int) canon.Invoice {
	out := canon.Invoice{
		Title:                    invoice.Title,
		Description:              invoice.Description,
		Currency:                 invoice.Currency,
		TotalAmount:              invoice.TotalAmount,
		StartParam:               invoice.StartParam,
		IsTest:                   invoice.Test,
		ShippingAddressRequested: invoice.ShippingAddressRequested,
	}
	if receiptID, ok := invoice.GetReceiptMsgID(); ok {
		receipt := cloudMessageID(owner, receiptID)
		out.ReceiptMessageID = &receipt
	}

	extended, ok := invoice.GetExtendedMedia()
	if !ok {
		return out
	}
	switch typed := extended.(type) {
	case *tg.MessageExtendedMediaPreview:
		preview := &canon.ExtendedMediaPreview{}
		if width, ok := typed.GetW(); ok {
			preview.Width = width
		}
		if height, ok := typed.GetH(); ok {
			preview.Height = height
		}
		if thumb, ok := typed.GetThumb(); ok {
			if stripped, ok := thumb.(*tg.PhotoStrippedSize); ok {
				preview.ThumbData = stripped.Bytes
			}
		}
		if duration, ok := typed.GetVideoDuration(); ok {
			preview.VideoDuration = intPtr(duration)
		}
		out.ExtendedMedia = &canon.ExtendedMedia{Preview: preview}
	case *tg.MessageExtendedMedia:
		if full := resolveMediaDepth(typed.Media, owner, depth+1); full.Media != nil {
			out.ExtendedMedia = &canon.ExtendedMedia{Full: full.Media}
		}
	}

	return out
}

func mapPoll(poll tg.Poll) canon.Poll {
	out := canon.Poll{
		ID:              poll.ID,
		Question:        poll.Question.Text,
		IsClosed:        poll.Closed,
		MultipleAnswers: poll.MultipleChoice,
	}
	if poll.PublicVoters {
		out.Publicity = canon.PollPublic
	}
	if poll.Quiz {
		out.Kind = canon.PollKindQuiz
		out.MultipleAnswers = false
	}
	if period, ok := poll.GetClosePeriod(); ok {
		out.DeadlineTimeout = intPtr(period)
	}
	for _, answer := range poll.Answers {
		out.Options = append(out.Options, canon.PollOption{
			Text: answer.Text.Text,
			Data: answer.Option,
		})
	}

	return out
}
