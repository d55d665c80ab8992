// Package render composes the transparency report document. Rendering is a
// pure function over stored data: no external calls, deterministic output.
package render

import (
	"bytes"
	"html/template"
	"sort"
	"strings"
	"unicode"

	"github.com/altibbe/transparency-api/internal/models"
)

// QA is one question/response pair included in the document, in display order.
type QA struct {
	QuestionText string
	Response     string
}

// Data is everything the renderer needs for one document.
type Data struct {
	Product   models.Product
	Report    models.Report
	Questions []QA
}

// certBadge is one certification flag prepared for display.
type certBadge struct {
	Label  string
	Active bool
}

// viewModel is the fully resolved template input. All defaults and
// conditional sections are decided here, not in the template.
type viewModel struct {
	ProductName     string
	Category        string
	Audience        string
	Location        string
	Description     string
	GeneratedDate   string
	Transparency    int
	HealthScore     string
	Analysis        string
	Certs           []certBadge
	Highlights      []string
	Questions       []QA
	Recommendations []string
	ReportID        string
}

const fallbackAnalysis = "This product has undergone comprehensive transparency assessment through our AI-powered evaluation system."

// Document renders the report as a self-contained HTML document.
func Document(d Data) ([]byte, error) {
	vm := viewModel{
		ProductName:     d.Product.Name,
		Category:        d.Product.Category,
		Audience:        stringOr(d.Product.Audience, "General Public"),
		Location:        stringOr(d.Product.Location, "Not specified"),
		Description:     stringOr(d.Product.Description, ""),
		GeneratedDate:   d.Report.GeneratedAt.Format("January 2, 2006"),
		Transparency:    d.Report.TransparencyScore,
		HealthScore:     d.Report.HealthScore,
		Analysis:        d.Report.Analysis(),
		Certs:           certBadges(d.Product.Certifications),
		Highlights:      d.Report.Highlights,
		Recommendations: d.Report.Recommendations(),
		ReportID:        d.Report.ID,
	}
	if vm.HealthScore == "" {
		vm.HealthScore = "N/A"
	}
	if vm.Analysis == "" {
		vm.Analysis = fallbackAnalysis
	}
	for _, q := range d.Questions {
		resp := q.Response
		if resp == "" {
			resp = "No response provided"
		}
		vm.Questions = append(vm.Questions, QA{QuestionText: q.QuestionText, Response: resp})
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, vm); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// certBadges prepares certification flags for display in a stable order.
func certBadges(certs models.BoolMap) []certBadge {
	if len(certs) == 0 {
		return nil
	}
	names := make([]string, 0, len(certs))
	for name := range certs {
		names = append(names, name)
	}
	sort.Strings(names)

	badges := make([]certBadge, 0, len(names))
	for _, name := range names {
		badges = append(badges, certBadge{Label: labelize(name), Active: certs[name]})
	}
	return badges
}

// labelize turns a camelCase flag name into a display label, e.g.
// "nonGmo" -> "Non Gmo".
func labelize(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stringOr(s *string, def string) string {
	if s != nil && *s != "" {
		return *s
	}
	return def
}

var reportTmpl = template.Must(template.New("report").
	Funcs(template.FuncMap{"add1": func(i int) int { return i + 1 }}).
	Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Product Transparency Report - {{.ProductName}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 800px;
            margin: 0 auto;
            padding: 40px 20px;
            background: white;
        }
        .header {
            text-align: center;
            border-bottom: 3px solid #1B5E20;
            padding-bottom: 20px;
            margin-bottom: 30px;
        }
        .logo { color: #1B5E20; font-size: 24px; font-weight: bold; margin-bottom: 10px; }
        .title { font-size: 32px; font-weight: bold; color: #1B5E20; margin: 20px 0; }
        .subtitle { font-size: 18px; color: #666; margin-bottom: 10px; }
        .score-section {
            display: flex;
            justify-content: center;
            gap: 40px;
            margin: 30px 0;
            padding: 20px;
            background: #f8f9fa;
            border-radius: 12px;
        }
        .score-box {
            text-align: center;
            padding: 20px;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            min-width: 120px;
        }
        .score-value { font-size: 36px; font-weight: bold; color: #00C853; margin-bottom: 5px; }
        .health-score { color: #1B5E20; }
        .score-label { font-size: 14px; color: #666; margin-top: 5px; }
        .section { margin: 30px 0; page-break-inside: avoid; }
        .section-title {
            font-size: 20px;
            font-weight: bold;
            color: #1B5E20;
            margin-bottom: 15px;
            border-bottom: 2px solid #e0e0e0;
            padding-bottom: 5px;
        }
        .product-info-grid {
            display: grid;
            grid-template-columns: 1fr 1fr;
            gap: 15px;
            margin: 20px 0;
        }
        .info-item { padding: 12px; background: #f8f9fa; border-radius: 6px; }
        .info-label { font-weight: 600; color: #333; font-size: 14px; margin-bottom: 4px; }
        .info-value { color: #666; font-size: 14px; }
        .certifications-grid { display: flex; flex-wrap: wrap; gap: 8px; margin-top: 8px; }
        .certification-badge {
            padding: 4px 12px;
            background: #e8f5e9;
            color: #1B5E20;
            border-radius: 12px;
            font-size: 13px;
        }
        .certification-badge.inactive { background: #eeeeee; color: #999; }
        .highlight-item { display: flex; align-items: flex-start; margin: 12px 0; padding: 8px 0; }
        .highlight-bullet {
            width: 8px;
            height: 8px;
            background: #00C853;
            border-radius: 50%;
            margin: 8px 12px 0 0;
            flex-shrink: 0;
        }
        .question-item { margin: 16px 0; padding: 12px; background: #f8f9fa; border-radius: 6px; break-inside: avoid; }
        .question-text { font-weight: 600; margin-bottom: 8px; }
        .question-response { color: #555; font-size: 14px; }
        .recommendation-item {
            margin: 10px 0;
            padding: 10px 14px;
            background: #e8f5e9;
            border-left: 3px solid #1B5E20;
            border-radius: 4px;
            font-size: 14px;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 2px solid #e0e0e0;
            text-align: center;
            color: #666;
            font-size: 13px;
        }
        .report-id { font-family: monospace; color: #1B5E20; }
        .disclaimer {
            margin-top: 20px;
            padding: 15px;
            background: #fff3cd;
            border: 1px solid #ffeaa7;
            border-radius: 6px;
            font-size: 13px;
            color: #856404;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="logo">Altibbe</div>
        <h1 class="title">Product Transparency Report</h1>
        <div class="subtitle">{{.ProductName}}</div>
        <p>Generated on {{.GeneratedDate}}</p>
    </div>

    <div class="score-section">
        <div class="score-box">
            <div class="score-value">{{.Transparency}}</div>
            <div class="score-label">Transparency Score</div>
        </div>
        <div class="score-box">
            <div class="score-value health-score">{{.HealthScore}}</div>
            <div class="score-label">Health Rating</div>
        </div>
    </div>

    <div class="section">
        <h2 class="section-title">Executive Summary</h2>
        <p><strong>Assessment Overview:</strong> {{.Analysis}}</p>
    </div>

    <div class="section">
        <h2 class="section-title">Product Information</h2>
        <div class="product-info-grid">
            <div class="info-item">
                <div class="info-label">Product Name</div>
                <div class="info-value">{{.ProductName}}</div>
            </div>
            <div class="info-item">
                <div class="info-label">Category</div>
                <div class="info-value">{{.Category}}</div>
            </div>
            <div class="info-item">
                <div class="info-label">Target Audience</div>
                <div class="info-value">{{.Audience}}</div>
            </div>
            <div class="info-item">
                <div class="info-label">Manufacturing Location</div>
                <div class="info-value">{{.Location}}</div>
            </div>
        </div>
{{if .Description}}
        <div style="margin-top: 20px;">
            <div class="info-label">Product Description</div>
            <p style="margin-top: 8px; padding: 12px; background: #f8f9fa; border-radius: 6px; font-size: 14px;">{{.Description}}</p>
        </div>
{{end}}{{if .Certs}}
        <div style="margin-top: 20px;">
            <div class="info-label">Certifications</div>
            <div class="certifications-grid">
{{range .Certs}}                <span class="certification-badge{{if not .Active}} inactive{{end}}">{{.Label}}</span>
{{end}}            </div>
        </div>
{{end}}    </div>
{{if .Highlights}}
    <div class="section">
        <h2 class="section-title">Key Transparency Highlights</h2>
{{range .Highlights}}        <div class="highlight-item">
            <div class="highlight-bullet"></div>
            <span>{{.}}</span>
        </div>
{{end}}    </div>
{{end}}{{if .Questions}}
    <div class="section">
        <h2 class="section-title">Detailed Assessment Responses</h2>
{{range $i, $q := .Questions}}        <div class="question-item">
            <div class="question-text">{{add1 $i}}. {{$q.QuestionText}}</div>
            <div class="question-response">{{$q.Response}}</div>
        </div>
{{end}}    </div>
{{end}}{{if .Recommendations}}
    <div class="section">
        <h2 class="section-title">Recommendations for Improvement</h2>
{{range .Recommendations}}        <div class="recommendation-item">{{.}}</div>
{{end}}    </div>
{{end}}
    <div class="section">
        <h2 class="section-title">Report Methodology</h2>
        <p style="font-size: 14px; color: #666; line-height: 1.6;">
            This transparency report was generated using Altibbe's AI-powered assessment platform. The evaluation process combines automated data analysis with expert-designed questionnaires tailored to specific product categories and target audiences. Transparency scores reflect the completeness and quality of information provided, while health scores assess safety and regulatory compliance based on current industry standards.
        </p>
        <div class="disclaimer">
            <strong>Disclaimer:</strong> This report is based on information provided by the product manufacturer and AI analysis. It should be used as a guide for transparency assessment and does not constitute medical, legal, or regulatory advice. Consumers should always consult with healthcare professionals for product safety concerns.
        </div>
    </div>

    <div class="footer">
        <p>Report ID: <span class="report-id">{{.ReportID}}</span></p>
        <p style="margin: 10px 0;">Generated by Altibbe Product Transparency Platform</p>
        <p style="margin: 0; font-weight: 600;">Health &bull; Wisdom &bull; Virtue</p>
    </div>
</body>
</html>
`
