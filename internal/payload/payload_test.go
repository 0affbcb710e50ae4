package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPBCompany_NameVariants(t *testing.T) {
	var structured PBCompany
	require.NoError(t, json.Unmarshal([]byte(`{"companyName":{"formalName":"Acme Corporation"},"name":"acme"}`), &structured))
	assert.Equal(t, "Acme Corporation", structured.ResolveName())

	var plain PBCompany
	require.NoError(t, json.Unmarshal([]byte(`{"companyName":"Acme","name":"acme"}`), &plain))
	assert.Equal(t, "Acme", plain.ResolveName())

	var generic PBCompany
	require.NoError(t, json.Unmarshal([]byte(`{"name":"acme"}`), &generic))
	assert.Equal(t, "acme", generic.ResolveName())
}

func TestPBDeal_SizeVariants(t *testing.T) {
	var bare PBDeal
	require.NoError(t, json.Unmarshal([]byte(`{"dealSize":2500000}`), &bare))
	require.NotNil(t, bare.Size())
	assert.Equal(t, "2500000", bare.Size().String())

	var nested PBDeal
	require.NoError(t, json.Unmarshal([]byte(`{"dealSize":{"amount":2500000,"currency":"USD"}}`), &nested))
	require.NotNil(t, nested.Size())
	assert.Equal(t, "2500000", nested.Size().String())

	var absent PBDeal
	require.NoError(t, json.Unmarshal([]byte(`{"dealSize":null}`), &absent))
	assert.Nil(t, absent.Size())
}

func TestPBDealList_ObjectAndBareArray(t *testing.T) {
	var wrapped PBDealList
	require.NoError(t, json.Unmarshal([]byte(`{"items":[{"dealId":"d-1"}]}`), &wrapped))
	require.Len(t, wrapped.Items, 1)

	var bare PBDealList
	require.NoError(t, json.Unmarshal([]byte(`[{"dealId":"d-1"},{"dealId":"d-2"}]`), &bare))
	require.Len(t, bare.Items, 2)
}

func TestHarmonicSearch_IDVariants(t *testing.T) {
	var search HarmonicSearch
	require.NoError(t, json.Unmarshal([]byte(`{"results":[{"id":777}]}`), &search))
	matches := search.Matches()
	require.Len(t, matches, 1)
	assert.Equal(t, "777", matches[0].ResolveID())

	var legacy HarmonicSearch
	require.NoError(t, json.Unmarshal([]byte(`{"data":[{"entity_id":"h-42"}]}`), &legacy))
	matches = legacy.Matches()
	require.Len(t, matches, 1)
	assert.Equal(t, "h-42", matches[0].ResolveID())
}

func TestHarmonicRound_ResolverFallbacks(t *testing.T) {
	var r HarmonicRound
	require.NoError(t, json.Unmarshal([]byte(`{
		"announced_date":"2021-06-01",
		"funding_type":"SERIES_A",
		"money_raised":{"amount":5000000}
	}`), &r))

	assert.Equal(t, "2021-06-01", r.ResolveDate())
	assert.Equal(t, "SERIES_A", r.ResolveType())
	require.NotNil(t, r.ResolveAmount())
	assert.Equal(t, "5000000", r.ResolveAmount().String())
	assert.Equal(t, "USD", r.ResolveCurrency())
}

func TestHarmonicCompany_Resolvers(t *testing.T) {
	var c HarmonicCompany
	require.NoError(t, json.Unmarshal([]byte(`{
		"name":"Acme",
		"website_url":"https://acme.io",
		"location":{"city":"Berlin","country":"Germany"},
		"founding_date":{"date":"2016-04-01T00:00:00Z"}
	}`), &c))

	assert.Equal(t, "https://acme.io", c.ResolveWebsite())
	assert.Equal(t, "Berlin, Germany", c.ResolveHQ())
	assert.Equal(t, "2016", c.ResolveFounded())
}

func TestFoundedYear(t *testing.T) {
	assert.Equal(t, "2016", FoundedYear("2016-04-01"))
	assert.Equal(t, "2016", FoundedYear("2016"))
	assert.Equal(t, "unknown", FoundedYear("unknown"))
}
