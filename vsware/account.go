package vsware

import (
	"context"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

type LocaleType struct {
	Country  string `json:"country"`
	Language string `json:"language"`
	Locale   string `json:"locale"`
}

type SecurityRoleResult struct {
	Username          string     `json:"username"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	DisplayName       string     `json:"displayName"`
	Email             *string    `json:"email"`
	TeachingPost      *string    `json:"teachingPost"`
	Roles             []string   `json:"roles"`
	AcademicYearID    int64      `json:"academicYearId"`
	AcademicYearCode  string     `json:"academicYearCode"`
	UserInfoID        int64      `json:"userInfoId"`
	FacultyID         *int64     `json:"facultyId"`
	LearnerID         *int64     `json:"learnerId"`
	Locale            LocaleType `json:"locale"`
	SchoolName        string     `json:"schoolName"`
	SchoolPhoneNumber string     `json:"schoolPhoneNumber"`
	Tenant            int64      `json:"tenant"`
	Subdomain         string     `json:"subdomain"`
	MainRole          string     `json:"mainRole"`
	CreatedAt         string     `json:"createdAt"`
	NameLayout        int        `json:"nameLayout"`
}

// HasRole reports whether role is among the user's security roles.
func (r SecurityRoleResult) HasRole(role string) bool {
	for _, have := range r.Roles {
		if have == role {
			return true
		}
	}
	return false
}

type IndividualLearner struct {
	UserInfoID         int64  `json:"userInfoId"`
	LearnerID          int64  `json:"learnerId"`
	PreferredGivenName string `json:"preferredGivenName"`
	DisplayName        string `json:"displayName"`
	Photo              string `json:"photo"`
	GivenName          string `json:"givenName"`
	FamilyName         string `json:"familyName"`
}

// ID returns the learner id in the form the request methods take.
func (l IndividualLearner) ID() ID {
	return IntID(l.LearnerID)
}

type UnreadCountResult struct {
	UnreadMailCount  *int            `json:"unreadMailCount"`
	UnreadSmsCount   *int            `json:"unreadSmsCount"`
	LastReceivedMail json.RawMessage `json:"lastReceivedMail"`
	LastReceivedSms  json.RawMessage `json:"lastReceivedSms"`
}

type Address struct {
	AddressLine1 *string `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	AddressLine3 *string `json:"addressLine3"`
	AddressLine4 *string `json:"addressLine4"`
	County       *string `json:"county"`
	Country      *string `json:"country"`
	PostCode     *string `json:"postCode"`
}

type ParentalDetailsResult struct {
	Address     Address `json:"address"`
	MobilePhone string  `json:"mobilePhone"`
	Email       string  `json:"email"`
}

type PersonalInfoResult struct {
	FirstName          string  `json:"firstName"`
	LastName           string  `json:"lastName"`
	BirthCertName      string  `json:"birthCertName"`
	PreferredFirstName string  `json:"preferredFirstName"`
	MothersMaidenName  string  `json:"mothersMaidenName"`
	PPSNumber          string  `json:"ppsNumber"`
	BirthDate          string  `json:"birthDate"`
	CountryOfBirth     *string `json:"countryOfBirth"`
	Nationality        string  `json:"nationality"`
	Gender             string  `json:"gender"`
	Email              *string `json:"email"`
	MobileNumber       *string `json:"mobileNumber"`
}

type SchoolEnrolment struct {
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
	LeftEarly bool    `json:"leftEarly"`
}

type PreviousSchool struct {
	Name       string  `json:"name"`
	ID         string  `json:"id"`
	SchoolType *string `json:"schoolType"`
}

type SchoolInfoResult struct {
	CourseTypeShortName     string          `json:"courseTypeShortName"`
	ClassGroupName          string          `json:"classGroupName"`
	LearnerSchoolEnrolment  SchoolEnrolment `json:"learnerSchoolEnrolment"`
	DepartmentPupilID       int64           `json:"departmentPupilId"`
	PreviousSchool          PreviousSchool  `json:"previousSchool"`
	ExamEntrant             string          `json:"examEntrant"`
	ExamRepeat              json.RawMessage `json:"examRepeat"`
	RepeatDetails           json.RawMessage `json:"repeatDetails"`
	OtherMisID              json.RawMessage `json:"otherMisId"`
	LockerNumber            json.RawMessage `json:"lockerNumber"`
	School5DayBoardingFee   json.RawMessage `json:"school5DayBoardingFee"`
	School7DayBoardingFee   json.RawMessage `json:"school7DayBoardingFee"`
	IsBoardingSchoolStudent *bool           `json:"isBoardingSchoolStudent"`
	ExamNumber              json.RawMessage `json:"examNumber"`
}

func (c *Client) GetLocale(ctx context.Context) (*Response[LocaleType], error) {
	return getJSON[LocaleType](ctx, c, "get_locale", c.controlURL("/control/localisation/locale/current/"))
}

func (c *Client) GetSecurityRoles(ctx context.Context) (*Response[SecurityRoleResult], error) {
	return getJSON[SecurityRoleResult](ctx, c, "get_security_roles", c.controlURL("/control/securityroles/user/"))
}

// GetLearners lists the learners linked to the logged-in guardian.
func (c *Client) GetLearners(ctx context.Context) (*Response[[]IndividualLearner], error) {
	return getJSON[[]IndividualLearner](ctx, c, "get_learners", c.controlURL("/control/household/learners/"))
}

func (c *Client) GetUnreadCount(ctx context.Context) (*Response[UnreadCountResult], error) {
	return getJSON[UnreadCountResult](ctx, c, "get_unread_count", c.controlURL("/control/comms/threads/unread-count/"))
}

func (c *Client) GetParentalDetails(ctx context.Context) (*Response[ParentalDetailsResult], error) {
	return getJSON[ParentalDetailsResult](ctx, c, "get_parental_details", c.controlURL("/control/parental/details"))
}

func (c *Client) GetPersonalInfo(ctx context.Context, learnerID ID) (*Response[PersonalInfoResult], error) {
	return getJSON[PersonalInfoResult](ctx, c, "get_personal_info", c.controlURL("/control/parental/%s/personal-info", learnerID))
}

func (c *Client) GetSchoolInfo(ctx context.Context, learnerID ID) (*Response[SchoolInfoResult], error) {
	return getJSON[SchoolInfoResult](ctx, c, "get_school_info", c.controlURL("/control/parental/%s/school-info", learnerID))
}

// TenantForLearner returns the tenant id embedded in the learner's photo URL.
func (c *Client) TenantForLearner(l IndividualLearner) string {
	return TenantFromPhoto(l.Photo)
}

// TenantFromPhoto takes the fourth segment of the photo URL's path, which is where the portal
// puts the numeric tenant id. It returns "" when the path is shorter than that.
func TenantFromPhoto(photo string) string {
	path := photo
	if u, err := url.Parse(photo); err == nil {
		path = u.Path
	}
	segments := strings.Split(path, "/")
	if len(segments) < 4 {
		return ""
	}
	return segments[3]
}
