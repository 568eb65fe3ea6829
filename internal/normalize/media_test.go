package normalize

import (
	"reflect"
	"testing"

	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

func TestResolveMediaGiveaway(t *testing.T) {
	t.Parallel()

	wire := &tg.MessageMediaGiveaway{
		OnlyNewSubscribers: true,
		Channels:           []int64{700, 701},
		Quantity:           10,
		UntilDate:          1_700_100_000,
	}
	wire.SetCountriesISO2([]string{"DE", "FR"})
	wire.SetMonths(3)

	got := resolveMedia(wire, canon.ChannelPeer(700))
	want := canon.Giveaway{
		OnlyNewSubscribers: true,
		Channels:           []canon.PeerID{canon.ChannelPeer(700), canon.ChannelPeer(701)},
		Countries:          []string{"DE", "FR"},
		Quantity:           10,
		Months:             3,
		UntilDate:          1_700_100_000,
	}
	if !reflect.DeepEqual(got.Media, want) {
		t.Fatalf("giveaway = %#v, want %#v", got.Media, want)
	}
}
