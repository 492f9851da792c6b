package domain

import (
	"fmt"
	"strings"
)

// EntityKind names one of the content types managed by the back-office.
type EntityKind string

const (
	KindAuction     EntityKind = "auction"
	KindOffer       EntityKind = "offer"
	KindTeamMember  EntityKind = "team_member"
	KindPastAuction EntityKind = "past_auction"
	KindRecord      EntityKind = "record"
)

type kindInfo struct {
	segment       string
	listingRoute  string
	hasProperties bool
}

var kinds = map[EntityKind]kindInfo{
	KindAuction:     {segment: "auctions", listingRoute: "/admin/auctions", hasProperties: true},
	KindOffer:       {segment: "offers", listingRoute: "/admin/offers"},
	KindTeamMember:  {segment: "team-members", listingRoute: "/admin/team"},
	KindPastAuction: {segment: "past-auctions", listingRoute: "/admin/past-auctions"},
	KindRecord:      {segment: "records", listingRoute: "/admin/records"},
}

// AllKinds returns every kind in a stable order.
func AllKinds() []EntityKind {
	return []EntityKind{KindAuction, KindOffer, KindTeamMember, KindPastAuction, KindRecord}
}

// ParseEntityKind accepts either the kind name ("team_member") or its
// path segment ("team-members").
func ParseEntityKind(s string) (EntityKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := kinds[EntityKind(s)]; ok {
		return EntityKind(s), nil
	}
	for k, info := range kinds {
		if info.segment == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntityKind, s)
}

// Segment is the path segment and collection name of the kind.
func (k EntityKind) Segment() string { return kinds[k].segment }

// ListingRoute is where the admin lands after a save or a failed load.
func (k EntityKind) ListingRoute() string { return kinds[k].listingRoute }

// HasProperties reports whether drafts of this kind carry a property sub-list.
func (k EntityKind) HasProperties() bool { return kinds[k].hasProperties }

// SchemaSlug is the directory name of the kind's payload schema.
func (k EntityKind) SchemaSlug() string { return strings.ReplaceAll(string(k), "_", "-") }

func (k EntityKind) Valid() bool {
	_, ok := kinds[k]
	return ok
}
