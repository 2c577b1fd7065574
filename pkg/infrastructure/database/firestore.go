package database

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	shared "github.com/redcap-42/runboard/pkg"
	"github.com/redcap-42/runboard/pkg/domain/activity"
)

// FirestoreAdapter provides activity metadata access using Firestore.
// Documents live at users/{userID}/activities/{activityID}.
type FirestoreAdapter struct {
	Client *firestore.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{Client: client}
}

func (a *FirestoreAdapter) activities(userID string) *firestore.CollectionRef {
	return a.Client.Collection(shared.CollectionUsers).Doc(userID).Collection(shared.CollectionActivities)
}

func (a *FirestoreAdapter) GetActivity(ctx context.Context, userID, activityID string) (*activity.Activity, error) {
	doc, err := a.activities(userID).Doc(activityID).Get(ctx)
	if err != nil {
		return nil, err
	}

	var act activity.Activity
	if err := doc.DataTo(&act); err != nil {
		return nil, err
	}
	act.ID = doc.Ref.ID
	return &act, nil
}

func (a *FirestoreAdapter) ListActivities(ctx context.Context, userID string) ([]*activity.Activity, error) {
	iter := a.activities(userID).OrderBy("startTime", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var acts []*activity.Activity
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var act activity.Activity
		if err := doc.DataTo(&act); err != nil {
			return nil, err
		}
		act.ID = doc.Ref.ID
		acts = append(acts, &act)
	}
	return acts, nil
}

func (a *FirestoreAdapter) UpdateActivity(ctx context.Context, userID, activityID string, data map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(data))
	for path, value := range data {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := a.activities(userID).Doc(activityID).Update(ctx, updates)
	return err
}
