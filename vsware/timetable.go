package vsware

import (
	"bytes"
	"context"
	"net/http"

	"github.com/goccy/go-json"
)

type WorkforceTeacher struct {
	WorkforcePersonalID *int64 `json:"workforcePersonalId"`
	TeacherName         string `json:"teacherName"`
}

// TimetableItem is one scheduled period. Color is a hex code without the leading #, and the
// times look like "2024-1-1 09:00:00".
type TimetableItem struct {
	Color              string             `json:"color"`
	Subject            string             `json:"subject"`
	RoomName           string             `json:"roomName"`
	TimetablePeriodID  int64              `json:"timetablePeriodId"`
	StartTime          string             `json:"startTime"`
	EndTime            string             `json:"endTime"`
	Teacher            WorkforceTeacher   `json:"teacher"`
	TeachingGroupID    int64              `json:"teachingGroupId"`
	AdditionalTeachers []WorkforceTeacher `json:"additionalTeachers"`
}

// GetTimetable fetches the learner's periods between start and end inclusive.
func (c *Client) GetTimetable(ctx context.Context, learnerID ID, start, end DateParam) (*Response[[]TimetableItem], error) {
	return getJSON[[]TimetableItem](ctx, c, "get_timetable",
		c.controlURL("/control/parental/%s/timetable?startDate=%s&endDate=%s", learnerID, start, end))
}

// PrintLayout controls the rendered printable timetable. The zero value matches the portal's
// defaults apart from the dimensions.
type PrintLayout struct {
	Width             int
	Height            int
	ShowSubjectColour bool
	ExtraCSSClasses   string
	IsMaster          bool
}

type timetableData struct {
	Type     string `json:"type"`
	Students []ID   `json:"students"`
}

type printTimetableRequest struct {
	TimetableData     timetableData `json:"timetableData"`
	Height            int           `json:"height"`
	TableHeight       int           `json:"tableHeight"`
	Width             int           `json:"width"`
	TableWidth        int           `json:"tableWidth"`
	ShowSubjectColour bool          `json:"showSubjectColour"`
	ExtraCSSClasses   string        `json:"extraCssClasses"`
	IsMaster          bool          `json:"isMaster"`
}

type TimetableDownloadPayload struct {
	DownloadID string `json:"downloadId"`
}

type TimetableDownloadInfoResult struct {
	Status       int                      `json:"status"`
	Payload      TimetableDownloadPayload `json:"payload"`
	Errors       json.RawMessage          `json:"errors"`
	ErrorMessage json.RawMessage          `json:"errorMessage"`
}

type TimetableDownloadErrorResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// PrintableTimetableResult holds one of two shapes the print endpoint answers with, both under
// HTTP 200: a download (numeric status) or an error (string status). Exactly one is set.
type PrintableTimetableResult struct {
	Download *TimetableDownloadInfoResult
	Error    *TimetableDownloadErrorResult
}

// UnmarshalJSON picks the shape from the JSON type of the status field.
func (r *PrintableTimetableResult) UnmarshalJSON(data []byte) error {
	var head struct {
		Status json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	status := bytes.TrimSpace(head.Status)
	if len(status) > 0 && status[0] == '"' {
		var e TimetableDownloadErrorResult
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		*r = PrintableTimetableResult{Error: &e}
		return nil
	}

	var d TimetableDownloadInfoResult
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*r = PrintableTimetableResult{Download: &d}
	return nil
}

func (r PrintableTimetableResult) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(r.Error)
	}
	return json.Marshal(r.Download)
}

// GetPrintableTimetable asks the portal to render a timetable for the given learners. The
// learners are always sent as a list, also when there is only one.
func (c *Client) GetPrintableTimetable(ctx context.Context, layout PrintLayout, learners ...ID) (*Response[PrintableTimetableResult], error) {
	students := make([]ID, 0, len(learners))
	students = append(students, learners...)

	body, err := json.Marshal(printTimetableRequest{
		TimetableData: timetableData{
			Type:     "PUBLISHED",
			Students: students,
		},
		Height:            layout.Height,
		TableHeight:       layout.Height,
		Width:             layout.Width,
		TableWidth:        layout.Width,
		ShowSubjectColour: layout.ShowSubjectColour,
		ExtraCSSClasses:   layout.ExtraCSSClasses,
		IsMaster:          layout.IsMaster,
	})
	if err != nil {
		return nil, &Error{Kind: KindRequest, Op: "get_printable_timetable", Err: err}
	}

	return exchange[PrintableTimetableResult](ctx, c, request{
		op:          "get_printable_timetable",
		method:      http.MethodPost,
		url:         c.controlURL("/control/timetable/print/"),
		body:        body,
		contentType: contentTypeJSON,
	}, decodeJSON[PrintableTimetableResult])
}

// PrintTimetable fetches the rendered timetable document. The body is HTML and is returned
// as text.
func (c *Client) PrintTimetable(ctx context.Context, downloadID string) (*Response[string], error) {
	return exchange[string](ctx, c, request{
		op:     "print_timetable",
		method: http.MethodGet,
		url:    c.controlURL("/control/converter/open/%s", downloadID),
	}, decodeText)
}
