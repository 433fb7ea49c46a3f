package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequests_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr bool
	}{
		{"extract with description", &ExtractJobRequest{Description: "We are hiring"}, false},
		{"extract with url", &ExtractJobRequest{URL: "https://jobs.example.com/1"}, false},
		{"extract with neither", &ExtractJobRequest{}, true},
		{"extract with bad url", &ExtractJobRequest{URL: "not a url"}, true},
		{"generate empty", &GenerateRequest{}, false},
		{"generate known length", &GenerateRequest{EmailSettings: EmailSettings{Length: LengthLong}}, false},
		{"generate unknown length", &GenerateRequest{EmailSettings: EmailSettings{Length: "epic"}}, true},
		{"generate free text tone", &GenerateRequest{EmailSettings: EmailSettings{Tone: "witty"}}, false},
		{"revise long feedback", &ReviseRequest{Feedback: strings.Repeat("x", 4001)}, true},
		{"revise bad embedded length", &ReviseRequest{GenerateRequest: GenerateRequest{EmailSettings: EmailSettings{Length: "x"}}}, true},
		{"subject", &ReviseSubjectRequest{CurrentSubject: "Hi"}, false},
		{"templatize", &TemplatizeRequest{Subject: "s", Body: "b", Score: 90}, false},
		{"templatize missing body", &TemplatizeRequest{Subject: "s"}, true},
		{"templatize score too high", &TemplatizeRequest{Subject: "s", Body: "b", Score: 101}, true},
		{"analyze short text", &AnalyzeResumeRequest{Text: "Sam"}, true},
		{"analyze", &AnalyzeResumeRequest{Text: strings.Repeat("resume ", 10)}, false},
		{"save template", &SaveTemplateRequest{Title: "t", Subject: "s", Body: "b", Tags: []string{"a"}}, false},
		{"save template blank tag", &SaveTemplateRequest{Title: "t", Subject: "s", Body: "b", Tags: []string{""}}, true},
		{"save template too many tags", &SaveTemplateRequest{Title: "t", Subject: "s", Body: "b", Tags: strings.Split("a b c d e f g h i j k", " ")}, true},
		{"summarize company text", &SummarizeCompanyRequest{Text: "About us"}, false},
		{"summarize company neither", &SummarizeCompanyRequest{CompanyName: "Acme"}, true},
		{"fill", &FillTemplateRequest{Values: map[string]string{"your_name": "Sam"}}, false},
		{"fill without values", &FillTemplateRequest{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveTemplateRequest_Fields(t *testing.T) {
	req := SaveTemplateRequest{Title: "t", Subject: "s", Body: "b", Tags: []string{"x"}, Category: "Networking"}
	assert.Equal(t, TemplateFields{Title: "t", Subject: "s", Body: "b", Tags: []string{"x"}}, req.Fields())
}
