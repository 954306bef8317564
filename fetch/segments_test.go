package fetch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selllocal/campaigner"
)

func TestSegmentValid(t *testing.T) {
	t.Parallel()

	for _, seg := range Segments() {
		assert.True(t, seg.Valid(), seg.String())
	}
	assert.False(t, Segment("everyone").Valid())
	assert.False(t, Segment("").Valid())
}

func TestSegmentColumns(t *testing.T) {
	t.Parallel()

	for _, seg := range Segments() {
		cols := seg.Columns()
		require.NotEmpty(t, cols, seg.String())
		assert.Equal(t, "email", cols[0], seg.String())
	}
}

func TestSegmentRow(t *testing.T) {
	t.Parallel()

	tenant := Tenant{
		OwnerEmail:         "ann@shop.example",
		Name:               "Ann's Shop",
		Slug:               "anns-shop",
		Domain:             "anns.shop",
		SubscriptionStatus: "active",
		SubscriptionEndsAt: "2025-05-01T00:00:00Z",
	}

	assert.Equal(t,
		[]string{"ann@shop.example", "Ann's Shop", "anns-shop", "anns.shop", "active"},
		SegmentActive.Row(tenant))

	assert.Equal(t,
		[]string{"ann@shop.example", "Ann's Shop", "anns-shop", "anns.shop", "active", "2025-05-01T00:00:00Z"},
		SegmentExpired.Row(tenant))

	assert.Equal(t,
		[]string{"ann@shop.example", "Ann's Shop", "anns-shop", "anns.shop"},
		SegmentFreeTier.Row(tenant))
}

func TestSegmentRow_FreeTierDomainFallback(t *testing.T) {
	t.Parallel()

	tenant := Tenant{
		OwnerEmail: "bob@store.example",
		Name:       "Bob's Store",
		Slug:       "bobs-store",
	}

	row := SegmentFreeTier.Row(tenant)
	assert.Equal(t, "bobs-store.selllocal.app", row[3])
}

func TestSegmentRow_RowMatchesColumns(t *testing.T) {
	t.Parallel()

	for _, seg := range Segments() {
		assert.Len(t, seg.Row(Tenant{}), len(seg.Columns()), seg.String())
	}
}

func TestWriteContacts(t *testing.T) {
	t.Parallel()

	tenants := []Tenant{
		{
			OwnerEmail:         "ann@shop.example",
			Name:               "Ann's Shop",
			Slug:               "anns-shop",
			Domain:             "anns.shop",
			SubscriptionStatus: "active",
		},
		{
			OwnerEmail:         "bob@store.example",
			Name:               "Bob, Esq.",
			Slug:               "bobs-store",
			Domain:             "bobs.store",
			SubscriptionStatus: "active",
		},
	}

	path := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, WriteContacts(path, SegmentActive, tenants))

	list, err := campaigner.LoadContacts(path)
	require.NoError(t, err)
	require.Equal(t, 2, list.Len())

	assert.Equal(t, SegmentActive.Columns(), list.Columns)
	assert.Equal(t, "ann@shop.example", list.Contacts[0].Email())
	assert.Equal(t, "Bob, Esq.", list.Contacts[1]["name"])
	assert.Equal(t, "bobs.store", list.Contacts[1]["domain"])
}

func TestWriteContacts_EmptySegmentStillWritesHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, WriteContacts(path, SegmentFreeTier, nil))

	list, err := campaigner.LoadContacts(path)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, SegmentFreeTier.Columns(), list.Columns)
}
