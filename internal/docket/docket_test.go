package docket

import "testing"

func TestNameQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   NameQuery
		wantErr bool
	}{
		{
			name:    "valid query",
			query:   NameQuery{FirstName: "John", LastName: "Smith"},
			wantErr: false,
		},
		{
			name:    "valid query with dob",
			query:   NameQuery{FirstName: "John", LastName: "Smith", DOB: "01/01/1980"},
			wantErr: false,
		},
		{
			name:    "missing first name",
			query:   NameQuery{LastName: "Smith"},
			wantErr: true,
		},
		{
			name:    "missing last name",
			query:   NameQuery{FirstName: "John"},
			wantErr: true,
		},
		{
			name:    "empty query",
			query:   NameQuery{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDocketNumberPattern(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"CP-51-CR-0001234-2015 Commonwealth v. Smith", "CP-51-CR-0001234-2015"},
		{"MC-51-CR-0009876-2020", "MC-51-CR-0009876-2020"},
		{"no docket here", ""},
	}

	for _, tt := range tests {
		if got := docketNumberPattern.FindString(tt.input); got != tt.want {
			t.Errorf("FindString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
