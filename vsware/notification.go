package vsware

import (
	"context"

	"github.com/goccy/go-json"
)

// The portal's enumerations are not closed; the constants are the values seen so far and any
// other string decodes unchanged.
type (
	NotificationType      string
	RetentionPolicy       string
	BroadcastState        string
	BroadcastType         string
	AcknowledgementStatus string
)

const (
	NotificationTypeAssessment NotificationType      = "ASSESSMENT"
	RetentionPolicyNone        RetentionPolicy       = "NONE"
	BroadcastStateComplete     BroadcastState        = "COMPLETE"
	BroadcastTypePush          BroadcastType         = "PUSH"
	AcknowledgementNew         AcknowledgementStatus = "NEW"
)

type NotificationBroadcast struct {
	BroadcastType BroadcastType `json:"broadcastType"`
}

type NotificationReceiverIdentity struct {
	ReceiverUserID int64 `json:"receiverUserId"`
}

type NotificationReceiver struct {
	ReceiverUserID               int64                        `json:"receiverUserId"`
	AcknowledgementStatus        AcknowledgementStatus        `json:"acknowledgementStatus"`
	AcknowledgementDate          json.RawMessage              `json:"acknowledgementDate"`
	BroadcastResults             []json.RawMessage            `json:"broadcastResults"`
	NotificationReceiverIdentity NotificationReceiverIdentity `json:"notificationReceiverIdentity"`
}

type NotificationResult struct {
	ID                   string           `json:"id"`
	NotificationType     NotificationType `json:"notificationType"`
	RetentionPolicy      RetentionPolicy  `json:"retentionPolicy"`
	RetentionPolicyFrom  json.RawMessage  `json:"retentionPolicyFrom"`
	RetentionPolicyUntil json.RawMessage  `json:"retentionPolicyUntil"`
	// CreatedOn is formatted YYYY-MM-DD HH:MM:SS.
	CreatedOn     string `json:"createdOn"`
	MessageTopic  string `json:"messageTopic"`
	RelatedItemID string `json:"relatedItemId"`
	// AdditionalInfo is a JSON document encoded as a string.
	AdditionalInfo  string                  `json:"additionalInfo"`
	TenantID        int64                   `json:"tenantId"`
	SenderUserID    int64                   `json:"senderUserId"`
	SenderName      string                  `json:"senderName"`
	SenderUserName  string                  `json:"senderUserName"`
	Active          bool                    `json:"active"`
	BroadcastState  BroadcastState          `json:"broadcastState"`
	BroadcastTypes  []NotificationBroadcast `json:"broadcastTypes"`
	ReceiverUserIDs []NotificationReceiver  `json:"receiverUserIds"`
	RelatedItem     json.RawMessage         `json:"relatedItem"`
}

func (c *Client) GetUnreadNotifications(ctx context.Context) (*Response[[]NotificationResult], error) {
	return getJSON[[]NotificationResult](ctx, c, "get_unread_notifications",
		c.controlURL("/control/notification?acknowledgementStatuses=NEW"))
}
