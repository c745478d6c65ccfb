package confluence

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// exportPath is the export add-on's kick-off endpoint. The add-on answers
// with an HTML shell that names the queued task in a meta tag.
const exportPath = "/wiki/spaces/flyingpdf/pdfpageexport.action"

// taskIDMetaName is the meta tag carrying the task ID.
const taskIDMetaName = "ajs-taskId"

// StartExport asks the export add-on to render one page as PDF and returns
// the queued task. A single attempt is made; the caller decides what a
// failure means for the rest of the batch.
func (c *Client) StartExport(ctx context.Context, ref PageReference) (*ExportTask, error) {
	exportURL := fmt.Sprintf("%s%s?pageId=%s", c.config.BaseURL, exportPath, url.QueryEscape(ref.PageID))

	resp, err := c.get(ctx, exportURL)
	if err != nil {
		return nil, &ExportRequestError{PageID: ref.PageID, Kind: KindOther, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := classifyStatus(resp.StatusCode)
		c.logger.Warn().
			Str("page_id", ref.PageID).
			Int("status", resp.StatusCode).
			Str("kind", string(kind)).
			Msg("Export request rejected")
		return nil, &ExportRequestError{PageID: ref.PageID, StatusCode: resp.StatusCode, Kind: kind}
	}

	taskID, err := extractTaskID(resp.Body)
	if err != nil {
		return nil, &ExportRequestError{PageID: ref.PageID, StatusCode: resp.StatusCode, Kind: KindOther, Err: err}
	}

	c.logger.Info().
		Str("page_id", ref.PageID).
		Str("task_id", taskID).
		Msg("Export task queued")

	return &ExportTask{ID: taskID, Status: StatusPending}, nil
}

// extractTaskID scrapes the task ID meta tag out of the export response.
func extractTaskID(body io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parse export response: %w", err)
	}

	content, ok := doc.Find(`meta[name="` + taskIDMetaName + `"]`).Attr("content")
	if !ok || content == "" {
		return "", fmt.Errorf("no %s meta tag in export response", taskIDMetaName)
	}

	return content, nil
}
