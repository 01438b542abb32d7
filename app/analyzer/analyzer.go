package analyzer

import (
	"log/slog"
	"strings"

	"github.com/feedscope/feedscope/app/feed"
)

const untitledFeed = "Untitled Feed"

// Analyzer runs the full analysis pipeline over one raw document:
// structural validation gates everything, then the parser adapter feeds
// the individual analysis stages, and their outputs are assembled into a
// single report. Every invocation is independent and stateless, so one
// Analyzer may serve concurrent callers.
type Analyzer struct {
	parser FeedParser
}

func New(parser FeedParser) *Analyzer {
	return &Analyzer{parser: parser}
}

// Run produces the analysis report for a raw document. It never returns
// an error: every failure below the transport boundary converges to a
// well-formed report with IsValid=false.
func (a *Analyzer) Run(doc RawDocument) *Report {
	feedType := DetectType(doc)

	outcome := Validate(doc)
	if !outcome.IsValid {
		messages := outcome.Messages()
		slog.Debug("Document failed structural validation",
			"url", doc.SourceURL, "violations", len(messages))
		return &Report{
			IsValid:          false,
			AvailableFields:  []string{},
			ContentType:      ContentTypeUnknown,
			FeedType:         feedType,
			Error:            strings.Join(messages, "; "),
			ValidationErrors: messages,
		}
	}

	parsed, err := a.parser.Run(doc.Text)
	if err != nil {
		// Rare: the lax validator accepted what the stricter parser
		// grammar rejects. Converge to a normal report, never a crash.
		slog.Debug("Document validated but unparsable",
			"url", doc.SourceURL, "error", err)
		return &Report{
			IsValid:         false,
			AvailableFields: []string{},
			ContentType:     ContentTypeUnknown,
			FeedType:        feedType,
			Error:           "Feed passed validation but could not be parsed",
		}
	}

	hasImage, breakdown, sampleURLs := AnalyzeImages(doc, parsed)
	lastUpdate, postFrequency := AnalyzeTiming(parsed)

	report := &Report{
		IsValid:          true,
		Title:            parsed.Title,
		AvailableFields:  DiscoverFields(parsed),
		HasFeaturedImage: hasImage,
		ContentType:      ClassifyContent(parsed),
		LastUpdate:       lastUpdate,
		ItemCount:        len(parsed.Items),
		FeedType:         feedType,
		PostFrequency:    postFrequency,
		DuplicateGUIDs:   FindDuplicates(parsed),
		MissingFields:    missingFields(parsed),
		ImageSources:     breakdown,
	}

	if report.Title == "" {
		report.Title = untitledFeed
	}
	for _, url := range sampleURLs {
		report.ImageResolutions = append(report.ImageResolutions, ImageRef{URL: url})
	}

	return report
}

// missingFields flags core fields the first item lacks: title, link, and
// content when neither content nor description is present.
func missingFields(parsed *feed.Parsed) []string {
	if len(parsed.Items) == 0 {
		return nil
	}

	item := parsed.Items[0]
	var missing []string
	if item.Title == "" {
		missing = append(missing, "title")
	}
	if item.Link == "" {
		missing = append(missing, "link")
	}
	if item.Content == "" && item.Description == "" {
		missing = append(missing, "content")
	}
	return missing
}
