package groq

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain object",
			input: `{"score": 85}`,
			want:  `{"score": 85}`,
		},
		{
			name:  "json code fence",
			input: "```json\n{\"score\": 85}\n```",
			want:  `{"score": 85}`,
		},
		{
			name:  "bare code fence",
			input: "```\n{\"score\": 85}\n```",
			want:  `{"score": 85}`,
		},
		{
			name:  "surrounding prose",
			input: `Here is the result: {"score": 85} hope that helps`,
			want:  `{"score": 85}`,
		},
		{
			name:  "trailing comma",
			input: `{"items": [1, 2,]}`,
			want:  `{"items": [1, 2]}`,
		},
		{
			name:  "unquoted key",
			input: `{score: 85}`,
			want:  `{"score": 85}`,
		},
		{
			name:  "brace inside string value",
			input: `{"note": "contains } brace", "score": 1} trailing junk`,
			want:  `{"note": "contains } brace", "score": 1}`,
		},
		{
			name:  "no json at all",
			input: "I could not produce an answer.",
			want:  "",
		},
		{
			name:  "empty object rejected",
			input: `{}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.input)
			if got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractJSONObjectUnbalanced(t *testing.T) {
	// An unterminated object is passed through so the caller's JSON parser
	// reports the real error.
	in := `{"a": [1, 2`
	if got := extractJSONObject(in); got != in {
		t.Errorf("extractJSONObject(%q) = %q, want input unchanged", in, got)
	}
}
