package vsware

import (
	"context"

	"github.com/goccy/go-json"
)

// AssessmentInfo describes an assessment window. StartDate and EndDate look like
// 2024-12-31T00:00:00; AssessmentStart and AssessmentEnd like 2024-12-31.
type AssessmentInfo struct {
	ID                        int64           `json:"id"`
	Tenant                    int64           `json:"tenant"`
	AcademicYearID            int64           `json:"academicYearId"`
	Name                      string          `json:"name"`
	Description               *string         `json:"description"`
	CourseID                  json.RawMessage `json:"courseId"`
	YearID                    json.RawMessage `json:"yearId"`
	StartDate                 string          `json:"startDate"`
	EndDate                   string          `json:"endDate"`
	AssessmentType            string          `json:"assessmentType"`
	AssessmentStart           string          `json:"assessmentStart"`
	AssessmentEnd             string          `json:"assessmentEnd"`
	ParentalPrintTemplateID   json.RawMessage `json:"parentalPrintTemplateId"`
	CapturePrincipalComment   bool            `json:"capturePrincipalComment"`
	CaptureTutorComment       bool            `json:"captureTutorComment"`
	CaptureYearHeadComment    bool            `json:"captureYearHeadComment"`
	CaptureHouseMasterComment bool            `json:"captureHouseMasterComment"`
	Publish                   bool            `json:"publish"`
}

type AssessmentCommentType string

const AssessmentCommentFreeForm AssessmentCommentType = "FREE_FORM"

// TeacherAssessmentComment is one subject result for a learner. The service capitalises most
// of its keys.
type TeacherAssessmentComment struct {
	CaptureTarget            bool                  `json:"captureTarget"`
	ExtraFieldDetailsDTOList []json.RawMessage     `json:"extraFieldDetailsDTOList"`
	ID                       int64                 `json:"Id"`
	LearnerPersonalID        int64                 `json:"LearnerPersonalId"`
	AssessmentID             int64                 `json:"AssessmentId"`
	AssessmentName           string                `json:"AssessmentName"`
	AssessmentStartDate      string                `json:"AssessmentStartDate"`
	AssessmentEndDate        string                `json:"AssessmentEndDate"`
	Subject                  string                `json:"Subject"`
	SubjectColour            string                `json:"SubjectColour"`
	SubjectCode              int64                 `json:"SubjectCode"`
	TeacherName              string                `json:"TeacherName"`
	TeacherRemark            string                `json:"TeacherRemark"`
	TeacherComment           string                `json:"TeacherComment"`
	TeacherCommentBank       json.RawMessage       `json:"TeacherCommentBank"`
	TeachingGroupName        string                `json:"TeachingGroupName"`
	TeacherDisplayCode       string                `json:"TeacherDisplayCode"`
	TeachingGroupID          int64                 `json:"TeachingGroupId"`
	CourseID                 string                `json:"CourseId"`
	StudyLevel               string                `json:"StudyLevel"`
	Grade                    *string               `json:"Grade"`
	NewGrade                 *string               `json:"NewGrade"`
	Mark                     *string               `json:"Mark"`
	TargetMark               *string               `json:"TargetMark"`
	TargetGrade              *string               `json:"TargetGrade"`
	NewCAOPoints             *float64              `json:"NewCAOPoints"`
	OldCAOPoints             *float64              `json:"OldCAOPoints"`
	GradeType                string                `json:"GradeType"`
	AssessmentCommentType    AssessmentCommentType `json:"AssessmentCommentType"`
	ExtraField1              *string               `json:"ExtraField1,omitempty"`
	ExtraField2              *string               `json:"ExtraField2,omitempty"`
	ExtraField3              *string               `json:"ExtraField3,omitempty"`
	ExtraField4              *string               `json:"ExtraField4,omitempty"`
	ExtraField5              *string               `json:"ExtraField5,omitempty"`
	ExtraField6              *string               `json:"ExtraField6,omitempty"`
	ExtraField7              *string               `json:"ExtraField7,omitempty"`
	ExtraField8              *string               `json:"ExtraField8,omitempty"`
	ExtraField9              *string               `json:"ExtraField9,omitempty"`
	ExtraField10             *string               `json:"ExtraField10,omitempty"`
	ExtraField11             *string               `json:"ExtraField11,omitempty"`
	ExtraField12             *string               `json:"ExtraField12,omitempty"`
}

// ExtraFields returns the optional extra fields in order; absent fields are nil.
func (t TeacherAssessmentComment) ExtraFields() [12]*string {
	return [12]*string{
		t.ExtraField1, t.ExtraField2, t.ExtraField3, t.ExtraField4,
		t.ExtraField5, t.ExtraField6, t.ExtraField7, t.ExtraField8,
		t.ExtraField9, t.ExtraField10, t.ExtraField11, t.ExtraField12,
	}
}

type CommenterType string

const (
	CommenterPrincipal   CommenterType = "PRINCIPAL"
	CommenterHouseMaster CommenterType = "HOUSE_MASTER"
	CommenterYearHead    CommenterType = "YEAR_HEAD"
	CommenterTutor       CommenterType = "TUTOR"
)

type OverviewComment struct {
	ID                  *int64        `json:"id"`
	WorkforcePersonalID int64         `json:"workforcePersonalId"`
	Comment             string        `json:"comment"`
	CommenterType       CommenterType `json:"commenterType"`
	CommenterName       string        `json:"commenterName"`
}

// The assessment service lives on the shared gateway and needs the bearer token from Login.
// Calling these before Login fails with ErrNotLoggedIn and sends nothing.

func (c *Client) GetAssessments(ctx context.Context, learnerID, tenant ID) (*Response[[]AssessmentInfo], error) {
	return gatewayGetJSON[[]AssessmentInfo](ctx, c, "get_assessments",
		c.gatewayURL("/assessment-service/control/assessment/%s/term/learner/%s?published=true", tenant, learnerID))
}

func (c *Client) GetTeacherCommentsAndResultsForAssessment(ctx context.Context, tenant, learnerID, assessmentID ID) (*Response[[]TeacherAssessmentComment], error) {
	return gatewayGetJSON[[]TeacherAssessmentComment](ctx, c, "get_teacher_comments",
		c.gatewayURL("/assessment-service/control/assessment/%s/result/term/learner/%s/%s", tenant, learnerID, assessmentID))
}

func (c *Client) GetOverviewCommentsForAssessment(ctx context.Context, tenant, learnerID, assessmentID ID) (*Response[[]OverviewComment], error) {
	return gatewayGetJSON[[]OverviewComment](ctx, c, "get_overview_comments",
		c.gatewayURL("/assessment-service/control/assessment/%s/comment/overview/%s/%s", tenant, assessmentID, learnerID))
}
