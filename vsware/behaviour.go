package vsware

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
)

type BasicBehaviourResult struct {
	StartingPoints float64 `json:"startingPoints"`
}

type BehaviourEntry struct {
	ID                   int64   `json:"id"`
	Version              int     `json:"version"`
	PositiveOrNegative   string  `json:"positiveOrNegative"`
	BehaviourPoints      float64 `json:"behaviourPoints"`
	BehaviourIcon        string  `json:"behaviourIcon"`
	BehaviourDescription *string `json:"behaviourDescription"`
	BehaviourName        string  `json:"behaviourName"`
}

// BehaviourIncident is one ledger entry. Dates look like "10 Oct 2024 12:34:56";
// IncidentDate is the same instant in epoch milliseconds.
//
// ID and SubjectName are left undecoded: the service has been seen describing them with types
// that do not match their names.
type BehaviourIncident struct {
	BehaviourEntry       BehaviourEntry    `json:"behaviourEntry"`
	LearnerID            int64             `json:"learnerId"`
	EditedDate           string            `json:"editedDate"`
	CreatedDate          string            `json:"createdDate"`
	BehaviourNote        string            `json:"behaviourNote"`
	EditorName           string            `json:"editorName"`
	CreatorName          string            `json:"creatorName"`
	CreatorUserInfoID    int64             `json:"creatorUserInfoId"`
	LearnerName          string            `json:"learnerName"`
	Total                float64           `json:"total"`
	ActionTakenNote      json.RawMessage   `json:"actionTakenNote"`
	TeachingGroupID      int64             `json:"teachingGroupId"`
	TeachingGroupName    string            `json:"teachingGroupName"`
	SubjectName          json.RawMessage   `json:"subjectName"`
	IncidentDate         int64             `json:"incidentDate"`
	IncidentDateStr      string            `json:"incidentDateStr"`
	GivenName            string            `json:"givenName"`
	FamilyName           string            `json:"familyName"`
	PreferredGivenName   *string           `json:"preferredGivenName"`
	EscalationEdit       json.RawMessage   `json:"escalationEdit"`
	AssigneeUserInfoID   int64             `json:"assigneeUserInfoId"`
	Privacy              bool              `json:"privacy"`
	Closed               bool              `json:"closed"`
	Editable             bool              `json:"editable"`
	EscalationVisibility bool              `json:"escalationVisibility"`
	ID                   json.RawMessage   `json:"id"`
	Version              int               `json:"version"`
	Personal             bool              `json:"personal"`
	PointsIncluded       bool              `json:"pointsIncluded"`
	Actors               []json.RawMessage `json:"actors"`
	EscalationEdited     bool              `json:"escalationEdited"`
}

type BehaviourMembership struct {
	SubjectName           string          `json:"subjectName"`
	TeacherName           string          `json:"teacherName"`
	TeacherID             int64           `json:"teacherId"`
	TeachingGroupName     string          `json:"teachingGroupName"`
	TeachingGroupID       int64           `json:"teachingGroupId"`
	StudyLevelEnum        json.RawMessage `json:"studyLevelEnum"`
	StudyLevel            json.RawMessage `json:"studyLevel"`
	MembershipID          *int64          `json:"membershipId"`
	LearnerPersonalID     *int64          `json:"learnerPersonalId"`
	SubjectID             *int64          `json:"subjectId"`
	YearlyRequiredMinutes *int64          `json:"yearlyRequiredMinutes"`
}

type BehaviourPayload struct {
	DisplayName                string                `json:"displayName"`
	ID                         int64                 `json:"id"`
	PhotoID                    string                `json:"photoId"`
	PhotoURL                   *string               `json:"photoURL"`
	GivenName                  string                `json:"givenName"`
	FamilyName                 string                `json:"familyName"`
	PreferredGivenName         string                `json:"preferredGivenName"`
	Status                     int                   `json:"status"`
	Location                   *string               `json:"location"`
	HasAccessToViewAssessments bool                  `json:"hasAccessToViewAssessments"`
	Collection                 []BehaviourIncident   `json:"collection"`
	Fields                     json.RawMessage       `json:"fields"`
	StartingPoints             float64               `json:"startingPoints"`
	TotalPoints                float64               `json:"totalPoints"`
	BehaviourScore             float64               `json:"behaviourScore"`
	PositivePoints             float64               `json:"positivePoints"`
	NegativePoints             float64               `json:"negativePoints"`
	Chart                      map[string]float64    `json:"chart"`
	Memberships                []BehaviourMembership `json:"memberships"`
}

type FullBehaviourResult struct {
	Status       int              `json:"status"`
	Payload      BehaviourPayload `json:"payload"`
	Errors       json.RawMessage  `json:"errors"`
	ErrorMessage json.RawMessage  `json:"errorMessage"`
}

func (c *Client) GetBasicBehaviourData(ctx context.Context, learnerID ID) (*Response[BasicBehaviourResult], error) {
	return getJSON[BasicBehaviourResult](ctx, c, "get_basic_behaviour",
		c.controlURL("/control/parental/%s/behaviour", learnerID))
}

// GetFullBehaviour fetches the current year's incident ledger. The request body is the bare
// learner id, not a JSON object.
func (c *Client) GetFullBehaviour(ctx context.Context, learnerID ID) (*Response[FullBehaviourResult], error) {
	return exchange[FullBehaviourResult](ctx, c, request{
		op:          "get_full_behaviour",
		method:      http.MethodPost,
		url:         c.controlURL("/control/behaviour/incident/fetch/ALL/0/current?currentYear=true"),
		body:        []byte(learnerID.String()),
		contentType: contentTypeJSON,
	}, decodeJSON[FullBehaviourResult])
}
