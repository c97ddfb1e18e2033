package vsware

import (
	"context"

	"github.com/goccy/go-json"
)

type Term struct {
	ID        int64  `json:"id"`
	Version   int    `json:"version"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Code      string `json:"code"`
	Name      string `json:"name"`
}

type IndividualAcademicYear struct {
	ID          int64  `json:"id"`
	Version     int    `json:"version"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	CurrentYear bool   `json:"currentYear"`
	Year        int    `json:"year"`
	Terms       []Term `json:"terms"`
	// Identifier keeps the portal's spelling of the key.
	Identifier int64 `json:"indentifier"`
}

type DatedAcademicYear struct {
	IndividualAcademicYear
	MinStartDate string `json:"minStartDate"`
	MaxEndDate   string `json:"maxEndDate"`
}

type AllAcademicYearsResult struct {
	Status       int                 `json:"status"`
	Payload      []DatedAcademicYear `json:"payload"`
	Errors       json.RawMessage     `json:"errors"`
	ErrorMessage json.RawMessage     `json:"errorMessage"`
}

// CurrentAcademicYear returns the year flagged as current, if any.
func CurrentAcademicYear(years []IndividualAcademicYear) (IndividualAcademicYear, bool) {
	for _, y := range years {
		if y.CurrentYear {
			return y, true
		}
	}
	return IndividualAcademicYear{}, false
}

type PartialUnexplainedAbsences struct {
	MaxStartTime                     json.RawMessage   `json:"maxStartTime"`
	MinEndTime                       json.RawMessage   `json:"minEndTime"`
	TodayUnexplainedBellTimeAbsences []json.RawMessage `json:"todayUnexplainedBellTimeAbsences"`
}

// AttendanceRecordOverviewResult lists days as YYYY-MM-DD strings. The absence lists have never
// been observed with content, so their elements are left undecoded.
type AttendanceRecordOverviewResult struct {
	TotalSchoolDays                 int                        `json:"totalSchoolDays"`
	LateAbsences                    []json.RawMessage          `json:"lateAbsences"`
	UnexplainedAbsences             []json.RawMessage          `json:"unexplainedAbsences"`
	PresentDays                     []string                   `json:"presentDays"`
	AbsentDays                      []string                   `json:"absentDays"`
	PartiallyAbsentDays             []string                   `json:"partiallyAbsentDays"`
	TodayPartialUnexplainedAbsences PartialUnexplainedAbsences `json:"todayPartialUnexplainedAbsences"`
}

// AvailableToTeachers is sent as "Yes" or "No" rather than a boolean.
type AvailableToTeachers string

const (
	AvailableToTeachersYes AvailableToTeachers = "Yes"
	AvailableToTeachersNo  AvailableToTeachers = "No"
)

type AttendanceCode struct {
	ID                  int64               `json:"id"`
	Code                string              `json:"code"`
	ShortDescription    string              `json:"shortDescription"`
	StatutoryCode       string              `json:"statutoryCode"`
	Type                string              `json:"type"`
	AvailableToParents  bool                `json:"availableToParents"`
	AvailableToTeachers AvailableToTeachers `json:"availableToTeachers"`
	Deleted             bool                `json:"deleted"`
}

// AttendanceCodeScope selects which attendance codes are listed.
type AttendanceCodeScope string

const (
	AttendanceCodesDefault AttendanceCodeScope = ""
	AttendanceCodesAll     AttendanceCodeScope = "all"
)

func (c *Client) GetAcademicYears(ctx context.Context, learnerID ID) (*Response[[]IndividualAcademicYear], error) {
	return getJSON[[]IndividualAcademicYear](ctx, c, "get_academic_years",
		c.controlURL("/control/learners/%s/academic-years", learnerID))
}

func (c *Client) GetAllAcademicYears(ctx context.Context) (*Response[AllAcademicYearsResult], error) {
	return getJSON[AllAcademicYearsResult](ctx, c, "get_all_academic_years",
		c.controlURL("/control/calendar/academicyear/fetch"))
}

func (c *Client) GetAttendanceRecordOverview(ctx context.Context, learnerID, yearID ID) (*Response[AttendanceRecordOverviewResult], error) {
	return getJSON[AttendanceRecordOverviewResult](ctx, c, "get_attendance_record_overview",
		c.controlURL("/control/parental/%s/attendance/%s/overview", learnerID, yearID))
}

// GetAttendanceCodes lists the codes available to parents, or every code when scope is
// AttendanceCodesAll. Any other scope behaves like AttendanceCodesDefault.
func (c *Client) GetAttendanceCodes(ctx context.Context, scope AttendanceCodeScope) (*Response[[]AttendanceCode], error) {
	path := "/control/parental/attendance-codes"
	if scope == AttendanceCodesAll {
		path += "/all"
	}
	return getJSON[[]AttendanceCode](ctx, c, "get_attendance_codes", c.controlURL("%s", path))
}
