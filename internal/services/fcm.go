package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/models"
)

// MessageSender is the part of the FCM client used here.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMService pushes trip notifications to drivers. Each driver app
// subscribes to the topic "driver-<id>".
type FCMService struct {
	client  MessageSender
	timeout time.Duration
	log     logger.Logger
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	return newFCMService(option.WithCredentialsFile(credentialsFile))
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(option.WithCredentialsJSON(credentialsJSON))
}

func newFCMService(opt option.ClientOption) (*FCMService, error) {
	ctx := context.Background()

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return NewFCMServiceWithSender(client), nil
}

// NewFCMServiceWithSender wraps an existing sender.
func NewFCMServiceWithSender(sender MessageSender) *FCMService {
	return &FCMService{client: sender, timeout: 10 * time.Second, log: logger.New("fcm")}
}

// DriverTopic is the topic a driver's device subscribes to.
func DriverTopic(driverID string) string {
	return "driver-" + driverID
}

// SendTripAssignedNotification tells a driver about a new pickup.
func (s *FCMService) SendTripAssignedNotification(ctx context.Context, trip models.Trip) error {
	message := &messaging.Message{
		Topic: DriverTopic(trip.DriverID),
		Notification: &messaging.Notification{
			Title: "New pickup assigned",
			Body:  fmt.Sprintf("Collect bin %s at %s and unload at %s.", trip.BinID, trip.Location, trip.Station.Name),
		},
		Data: map[string]string{
			"type":       "trip_assigned",
			"trip_id":    trip.ID,
			"bin_id":     trip.BinID,
			"station_id": trip.StationID,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}
	return s.send(ctx, message)
}

// SendTripStatusNotification tells a driver their trip changed status.
func (s *FCMService) SendTripStatusNotification(ctx context.Context, trip models.Trip) error {
	message := &messaging.Message{
		Topic: DriverTopic(trip.DriverID),
		Notification: &messaging.Notification{
			Title: "Trip update",
			Body:  fmt.Sprintf("Trip %s is now %s", trip.ID, trip.Status),
		},
		Data: map[string]string{
			"type":    "trip_update",
			"trip_id": trip.ID,
			"status":  trip.Status,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	return s.send(ctx, message)
}

func (s *FCMService) send(ctx context.Context, message *messaging.Message) error {
	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}
	s.log.Infof("FCM notification sent to %s: %s", message.Topic, response)
	return nil
}

// HandleEvent pushes trip events to the driver involved.
func (s *FCMService) HandleEvent(ev models.Event) {
	if ev.Trip == nil {
		return
	}
	trip := *ev.Trip
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		var err error
		switch ev.Type {
		case models.EventTripAssigned:
			err = s.SendTripAssignedNotification(ctx, trip)
		case models.EventTripUpdated:
			err = s.SendTripStatusNotification(ctx, trip)
		default:
			return
		}
		if err != nil {
			s.log.Warnf("push for %s failed: %v", trip.ID, err)
		}
	}()
}
