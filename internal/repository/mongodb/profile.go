package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
)

const profileCollection = "profiles"

// ProfileRepository implements profile.Repository on MongoDB
type ProfileRepository struct {
	store *Store
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(store *Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func (r *ProfileRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.store.Database(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to connect to document store", err)
	}
	return db.Collection(profileCollection), nil
}

// EnsureIndexes creates the unique email index and the payment customer
// lookup index. Called once at startup.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "stripeCustomerId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return errors.DatabaseError("Failed to create profile indexes", err)
	}
	return nil
}

// FindByEmail retrieves a profile by its email key
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, coll, bson.M{"email": email})
}

// FindByID retrieves a profile by document id
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.NotFound("Profile")
	}
	return r.findOne(ctx, coll, bson.M{"_id": oid})
}

// FindByStripeCustomerID retrieves a profile by its stored payment customer id
func (r *ProfileRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*profile.Profile, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, coll, bson.M{"stripeCustomerId": customerID})
}

func (r *ProfileRepository) findOne(ctx context.Context, coll *mongo.Collection, filter bson.M) (*profile.Profile, error) {
	var p profile.Profile
	err := coll.FindOne(ctx, filter).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Profile")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get profile", err)
	}
	p.Normalize()
	return &p, nil
}

// Upsert merges the present fields of update into the profile keyed by
// email. Unspecified fields keep their prior values; updatedAt is always
// refreshed. With createIfMissing=false a miss performs no write.
func (r *ProfileRepository) Upsert(ctx context.Context, email string, update profile.Update, createIfMissing bool) (*profile.Profile, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	set := setFields(update)
	set["updatedAt"] = now

	doc := bson.M{"$set": set}
	if createIfMissing {
		doc["$setOnInsert"] = bson.M{
			"email":     email,
			"createdAt": now,
		}
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(createIfMissing).
		SetReturnDocument(options.After)

	var p profile.Profile
	err = coll.FindOneAndUpdate(ctx, bson.M{"email": email}, doc, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Profile")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to upsert profile", err)
	}
	p.Normalize()
	return &p, nil
}

// setFields projects the non-nil fields of an Update into a $set document.
func setFields(u profile.Update) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.PasswordHash != nil {
		set["passwordHash"] = *u.PasswordHash
	}
	if u.MBTIType != nil {
		set["mbtiType"] = *u.MBTIType
	}
	if u.MBTIResponses != nil {
		set["mbtiResponses"] = u.MBTIResponses
	}
	if u.SkillRatings != nil {
		set["skillRatings"] = u.SkillRatings
	}
	if u.PersonalPreferences != nil {
		set["personalPreferences"] = *u.PersonalPreferences
	}
	if u.AssessmentCompleted != nil {
		set["assessmentCompleted"] = *u.AssessmentCompleted
	}
	if u.PreferencesCompleted != nil {
		set["preferencesCompleted"] = *u.PreferencesCompleted
	}
	if u.CompletedAt != nil {
		set["completedAt"] = *u.CompletedAt
	}
	if u.CareerGuidance != nil {
		set["careerGuidance"] = *u.CareerGuidance
	}
	if u.LearningResources != nil {
		set["learningResources"] = u.LearningResources
	}
	if u.SubscriptionStatus != nil {
		set["subscriptionStatus"] = profile.NormalizeStatus(*u.SubscriptionStatus)
	}
	if u.SubscriptionPlan != nil {
		set["subscriptionPlan"] = profile.NormalizePlan(*u.SubscriptionPlan)
	}
	if u.StripeCustomerID != nil {
		set["stripeCustomerId"] = *u.StripeCustomerID
	}
	if u.StripeSubscriptionID != nil {
		set["stripeSubscriptionId"] = *u.StripeSubscriptionID
	}
	if u.CurrentPeriodEnd != nil {
		set["currentPeriodEnd"] = *u.CurrentPeriodEnd
	}
	return set
}
