package extract

import (
	"reflect"
	"testing"

	"github.com/rivalscope/rivalscope-engine/pkg/models"
)

func TestResearchData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *models.ResearchData
	}{
		{
			name: "bare object",
			raw:  `{"networth":[{"value":1000000,"year":2023,"source":"https://nw.test"}],"users":[{"value":500,"year":2023,"source":"https://u.test"}],"funding":[{"value":250000,"year":2022,"source":"https://f.test"}]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1000000, Year: 2023, Source: "https://nw.test"}},
				Users:    []models.TimeSeriesPoint{{Value: 500, Year: 2023, Source: "https://u.test"}},
				Funding:  []models.TimeSeriesPoint{{Value: 250000, Year: 2022, Source: "https://f.test"}},
			},
		},
		{
			name: "fenced block with json tag",
			raw:  "Here is the data you asked for:\n```json\n{\"networth\":[{\"value\":1000000,\"year\":2023,\"source\":\"https://nw.test\"}],\"users\":[],\"funding\":[]}\n```",
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1000000, Year: 2023, Source: "https://nw.test"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "fenced block without tag",
			raw:  "```\n{\"networth\":[],\"users\":[{\"value\":42,\"year\":2021,\"source\":\"https://u.test\"}],\"funding\":[]}\n```",
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{},
				Users:    []models.TimeSeriesPoint{{Value: 42, Year: 2021, Source: "https://u.test"}},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "object wrapped in prose",
			raw:  `Based on my research: {"networth":[],"users":[],"funding":[{"value":9.5,"year":2020,"source":"https://f.test"}]} I hope this helps.`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{{Value: 9.5, Year: 2020, Source: "https://f.test"}},
			},
		},
		{
			name: "case-insensitive keys",
			raw:  `{"Networth":[{"value":1,"year":2023,"source":"s"}],"USERS":[],"Funding":[]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1, Year: 2023, Source: "s"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "exact key wins over case variant",
			raw:  `{"networth":[{"value":1,"year":2023,"source":"exact"}],"NETWORTH":[{"value":2,"year":2023,"source":"upper"}],"users":[],"funding":[]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1, Year: 2023, Source: "exact"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "missing keys default to empty",
			raw:  `{"networth":[{"value":1,"year":2023,"source":"s"}]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1, Year: 2023, Source: "s"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "string values are coerced",
			raw:  `{"networth":[{"value":"1000000","year":"2023","source":"https://nw.test"}],"users":[],"funding":[]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1000000, Year: 2023, Source: "https://nw.test"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "numeric source is coerced",
			raw:  `{"networth":[{"value":1,"year":2023,"source":2023}],"users":[],"funding":[]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1, Year: 2023, Source: "2023"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "point missing source is dropped",
			raw:  `{"networth":[{"value":1,"year":2023},{"value":2,"year":2022,"source":"s"}],"users":[],"funding":[]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 2, Year: 2022, Source: "s"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "point with unparseable value is dropped",
			raw:  `{"networth":[{"value":"unknown","year":2023,"source":"s"},{"value":3,"year":2021,"source":"s"}],"users":[],"funding":[]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 3, Year: 2021, Source: "s"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "non-object elements are skipped",
			raw:  `{"networth":["oops",{"value":1,"year":2023,"source":"s"},7],"users":[],"funding":[]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1, Year: 2023, Source: "s"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "non-array series rejects candidate",
			raw:  `{"networth":"none found","users":[],"funding":[]}`,
			want: nil,
		},
		{
			name: "null series rejects candidate",
			raw:  `{"networth":null,"users":[],"funding":[]}`,
			want: nil,
		},
		{
			name: "earlier bad object is skipped for later good one",
			raw:  `{"note":"searching"} then finally {"networth":[],"users":[],"funding":[{"value":5,"year":2024,"source":"s"}]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{{Value: 5, Year: 2024, Source: "s"}},
			},
		},
		{
			name: "braces inside string values",
			raw:  `{"networth":[{"value":1,"year":2023,"source":"https://nw.test/{id}"}],"users":[],"funding":[]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1, Year: 2023, Source: "https://nw.test/{id}"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "source is trimmed",
			raw:  `{"networth":[{"value":1,"year":2023,"source":"  https://nw.test  "}],"users":[],"funding":[]}`,
			want: &models.ResearchData{
				Networth: []models.TimeSeriesPoint{{Value: 1, Year: 2023, Source: "https://nw.test"}},
				Users:    []models.TimeSeriesPoint{},
				Funding:  []models.TimeSeriesPoint{},
			},
		},
		{
			name: "refusal text yields nil",
			raw:  "I do not have reliable figures for this company.",
			want: nil,
		},
		{
			name: "empty input yields nil",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResearchData(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResearchData() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResearchData_KeyWindowFallback(t *testing.T) {
	// A stray quote ahead of the object flips the scanner's string state, so
	// the balanced scan never sees the braces. The key-window patterns ignore
	// quoting and still recover the object.
	raw := `Fetching sources... " {"networth": [{"value": 10, "year": 2019, "source": "s"}], "users": [], "funding": []}`
	got := ResearchData(raw)
	if got == nil {
		t.Fatal("ResearchData() = nil, want parsed data")
	}
	if len(got.Networth) != 1 || got.Networth[0].Value != 10 {
		t.Errorf("Networth = %+v, want single point with value 10", got.Networth)
	}
}

func TestResearchData_NeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{
		"{{{{",
		"}}}}",
		`{"networth": [unterminated`,
		"```json\n{broken\n```",
		`[{"value":1,"year":2023,"source":"s"}]`,
		`{"networth": {}, "users": {}, "funding": {}}`,
	}
	for _, raw := range inputs {
		if got := ResearchData(raw); got != nil {
			t.Errorf("ResearchData(%q) = %+v, want nil", raw, got)
		}
	}
}
