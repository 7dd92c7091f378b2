package notify

import (
	"context"       // Context for AWS calls
	"encoding/json" // JSON encoding for the SNS message structure
	"errors"        // Error values
	"strings"       // String manipulation

	"weightloss_backend/internal/domain" // Importing domain models

	"github.com/aws/aws-sdk-go-v2/aws"              // AWS helpers
	awsconfig "github.com/aws/aws-sdk-go-v2/config" // AWS configuration loader
	"github.com/aws/aws-sdk-go-v2/service/sns"      // SNS client
	"github.com/sirupsen/logrus"                    // Logging library
	"gorm.io/gorm"                                  // GORM ORM library
)

// Service sends push notifications through SNS platform endpoints.
// Delivery is best-effort: failures are logged and swallowed.
type Service struct {
	sns        *sns.Client // SNS client
	fcmAppArn  string      // Platform application ARN for android devices
	apnsAppArn string      // Platform application ARN for ios devices
}

// NewService builds a push service from the AWS default config chain
func NewService(region, fcmAppArn, apnsAppArn string) (*Service, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, err // Return error if AWS config fails
	}
	return &Service{
		sns:        sns.NewFromConfig(cfg), // SNS client from config
		fcmAppArn:  fcmAppArn,              // FCM platform application ARN
		apnsAppArn: apnsAppArn,             // APNs platform application ARN
	}, nil
}

// platformArn maps a device type to its platform application ARN
func (s *Service) platformArn(deviceType string) (string, error) {
	switch strings.ToLower(deviceType) {
	case domain.DeviceAndroid:
		if s.fcmAppArn == "" {
			return "", errors.New("FCM platform application ARN not configured")
		}
		return s.fcmAppArn, nil
	case domain.DeviceIOS:
		if s.apnsAppArn == "" {
			return "", errors.New("APNs platform application ARN not configured")
		}
		return s.apnsAppArn, nil
	default:
		return "", errors.New("unknown device type")
	}
}

// RegisterDevice creates an SNS platform endpoint for a device token and
// returns the endpoint ARN to store on the user row
func (s *Service) RegisterDevice(ctx context.Context, deviceToken, deviceType string) (string, error) {
	appArn, err := s.platformArn(deviceType) // Resolve the platform application
	if err != nil {
		return "", err
	}
	out, err := s.sns.CreatePlatformEndpoint(ctx, &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),      // Platform application
		Token:                  aws.String(deviceToken), // Device token
	})
	if err != nil {
		return "", err // Return error if endpoint creation fails
	}
	return aws.ToString(out.EndpointArn), nil
}

// PushToUser looks up the user's device and publishes a notification to it.
// A user without a registered device is a silent no-op; delivery errors are
// logged and discarded.
func (s *Service) PushToUser(db *gorm.DB, userID uint, title, body string, data map[string]string) {
	var user domain.User // Look up the target user
	if err := db.First(&user, userID).Error; err != nil {
		return // Unknown user, nothing to deliver
	}
	// No device registered, silently no-op
	if user.DeviceToken == nil || user.DeviceEndpoint == nil {
		return
	}
	// SNS JSON message structure with an FCM notification block
	msg := map[string]any{
		"default": body,
		"GCM": map[string]any{
			"notification": map[string]string{
				"title": title, // Notification title
				"body":  body,  // Notification body
			},
			"data": data, // Opaque data payload
		},
	}
	raw, _ := json.Marshal(msg) // Marshal the message structure
	_, err := s.sns.Publish(context.Background(), &sns.PublishInput{
		MessageStructure: aws.String("json"),               // JSON message structure
		Message:          aws.String(string(raw)),          // Marshaled message
		TargetArn:        aws.String(*user.DeviceEndpoint), // Device endpoint
	})
	// Delivery failures are non-fatal, log and discard
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // Target user ID
			"title":   title,       // Notification title
			"error":   err.Error(), // Error message
		}).Warn("Push notification delivery failed")
	}
}
