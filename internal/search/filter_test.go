package search

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2026, 12, d, 20, 0, 0, 0, time.UTC)
}

func fixtureCatalogue() []Result {
	return []Result{
		{ID: "e1", Type: TypeEvent, Title: "Concierto de Rock", Artist: "Los Bunkers", Location: "Lima", Category: "music", Date: day(5), Price: decimal.NewFromInt(120), Rating: 4.6, Featured: false},
		{ID: "e2", Type: TypeEvent, Title: "Festival de Jazz", Artist: "Varios", Location: "Cusco", Category: "music", Date: day(12), Price: decimal.NewFromInt(80), Rating: 4.1, Featured: true},
		{ID: "e3", Type: TypeEvent, Title: "Hamlet", Location: "Lima", Category: "theatre", Date: day(20), Price: decimal.NewFromInt(60), Rating: 3.9},
		{ID: "t1", Type: TypeTransport, Title: "Lima - Cusco", Location: "Lima", Destination: "Cusco", Company: "Cruz del Sur", Category: "VIP", Date: day(6), Price: decimal.NewFromInt(90), Rating: 4.4, VehicleType: "bus", Amenities: []string{"wifi", "usb", "bathroom"}},
		{ID: "t2", Type: TypeTransport, Title: "Cusco - Aguas Calientes", Location: "Cusco", Destination: "Aguas Calientes", Company: "PeruRail", Category: "Vistadome", Date: day(13), Price: decimal.NewFromInt(150), Rating: 4.8, VehicleType: "train", Amenities: []string{"wifi", "snacks"}, Featured: true},
		{ID: "t3", Type: TypeTransport, Title: "Lima - Arequipa", Location: "Lima", Destination: "Arequipa", Company: "Oltursa", Category: "Economico", Date: day(6), Price: decimal.NewFromInt(45), Rating: 3.5, VehicleType: "bus", Amenities: []string{"bathroom"}},
	}
}

func ids(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func floatPtr(v float64) *float64 {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestFilter_SinglePredicates(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "empty query keeps everything", query: Query{}, want: []string{"e1", "e2", "e3", "t1", "t2", "t3"}},
		{name: "text matches company", query: Query{Text: "perurail"}, want: []string{"t2"}},
		{name: "text matches artist", query: Query{Text: "bunkers"}, want: []string{"e1"}},
		{name: "type", query: Query{Type: "event"}, want: []string{"e1", "e2", "e3"}},
		{name: "type all", query: Query{Type: "all"}, want: []string{"e1", "e2", "e3", "t1", "t2", "t3"}},
		{name: "category", query: Query{Category: "MUSIC"}, want: []string{"e1", "e2"}},
		{name: "location covers destination", query: Query{Location: "cusco"}, want: []string{"e2", "t1", "t2"}},
		{name: "date range inclusive", query: Query{DateFrom: timePtr(time.Date(2026, 12, 6, 0, 0, 0, 0, time.UTC)), DateTo: timePtr(time.Date(2026, 12, 12, 0, 0, 0, 0, time.UTC))}, want: []string{"e2", "t1", "t3"}},
		{name: "price range", query: Query{MinPrice: floatPtr(60), MaxPrice: floatPtr(100)}, want: []string{"e2", "e3", "t1"}},
		{name: "min rating", query: Query{MinRating: 4.5}, want: []string{"e1", "t2"}},
		{name: "vehicle types", query: Query{VehicleTypes: []string{"train", "boat"}}, want: []string{"t2"}},
		{name: "amenities all required", query: Query{Amenities: []string{"wifi", "bathroom"}}, want: []string{"t1"}},
	}

	catalogue := fixtureCatalogue()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(catalogue, tt.query)))
		})
	}
}

func TestFilter_IsIntersectionOfActivePredicates(t *testing.T) {
	catalogue := fixtureCatalogue()
	singles := []Query{
		{Text: "lima"},
		{Type: "transport"},
		{Location: "lima"},
		{DateFrom: timePtr(day(6))},
		{MaxPrice: floatPtr(100)},
		{MinRating: 3.6},
		{VehicleTypes: []string{"bus"}},
		{Amenities: []string{"bathroom"}},
	}

	combined := Query{}
	expected := map[string]bool{}
	for _, r := range catalogue {
		expected[r.ID] = true
	}

	for _, single := range singles {
		matched := map[string]bool{}
		for _, id := range ids(Filter(catalogue, single)) {
			matched[id] = true
		}
		for id := range expected {
			if !matched[id] {
				delete(expected, id)
			}
		}
		combined = merge(combined, single)

		got := Filter(catalogue, combined)
		assert.Len(t, got, len(expected))
		for _, r := range got {
			assert.True(t, expected[r.ID], "result %s is outside the intersection", r.ID)
		}
	}

	assert.Equal(t, []string{"t1"}, ids(Filter(catalogue, combined)))
}

func merge(a, b Query) Query {
	if b.Text != "" {
		a.Text = b.Text
	}
	if b.Type != "" {
		a.Type = b.Type
	}
	if b.Location != "" {
		a.Location = b.Location
	}
	if b.DateFrom != nil {
		a.DateFrom = b.DateFrom
	}
	if b.MaxPrice != nil {
		a.MaxPrice = b.MaxPrice
	}
	if b.MinRating != 0 {
		a.MinRating = b.MinRating
	}
	if b.VehicleTypes != nil {
		a.VehicleTypes = b.VehicleTypes
	}
	if b.Amenities != nil {
		a.Amenities = b.Amenities
	}
	return a
}

func TestSort(t *testing.T) {
	tests := []struct {
		by   SortBy
		want []string
	}{
		{by: SortRelevance, want: []string{"e2", "t2", "e1", "e3", "t1", "t3"}},
		{by: "", want: []string{"e2", "t2", "e1", "e3", "t1", "t3"}},
		{by: SortPriceAsc, want: []string{"t3", "e3", "e2", "t1", "e1", "t2"}},
		{by: SortPriceDesc, want: []string{"t2", "e1", "t1", "e2", "e3", "t3"}},
		{by: SortRating, want: []string{"t2", "e1", "t1", "e2", "e3", "t3"}},
		{by: SortDate, want: []string{"e1", "t1", "t3", "e2", "t2", "e3"}},
		{by: SortName, want: []string{"e1", "t2", "e2", "e3", "t3", "t1"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			results := fixtureCatalogue()
			Sort(results, tt.by)
			assert.Equal(t, tt.want, ids(results))
		})
	}
}

func TestBuildFacets(t *testing.T) {
	facets := BuildFacets(fixtureCatalogue())

	assert.Equal(t, []string{"Aguas Calientes", "Arequipa", "Cusco", "Lima"}, facets.Locations)
	assert.Equal(t, []string{"bus", "train"}, facets.VehicleTypes)
	assert.Equal(t, []string{"bathroom", "snacks", "usb", "wifi"}, facets.Amenities)
}
