package flow

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arkadelo/profilehub/internal/geocode"
	"github.com/arkadelo/profilehub/internal/identity"
	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/services"
	"github.com/arkadelo/profilehub/internal/storage"
	"github.com/arkadelo/profilehub/internal/utils"
)

const photoFolder = "profile-photos"

// Image is a selected photo awaiting validation and upload.
type Image struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Input is one submission attempt. A non-empty SubmissionID selects
// the update path; otherwise a new record is appended.
type Input struct {
	SubmissionID string
	Name         string
	Email        string
	Description  string
	Phone        string
	Location     string

	Image            *Image
	ExistingPhotoURL *string
}

type Result struct {
	SubmissionID string
	PhotoURL     *string
	Updated      bool
}

// Flow runs the profile submission sequence: validate, optionally
// upload the photo, then three strictly ordered persistence writes.
// No write is wrapped in a transaction with another; a failure between
// the user-record write and the submission write leaves the record
// updated with no submission, which callers must tolerate.
// Reaper queues a superseded photo URL for background deletion.
type Reaper interface {
	Enqueue(ctx context.Context, photoURL string) error
}

type Flow struct {
	identity identity.Provider
	users    services.UserService
	subs     services.SubmissionService
	uploader storage.Uploader
	geocoder *geocode.Client
	reaper   Reaper
	log      *logrus.Logger

	// invoked after a successful attempt so the caller can refresh
	// its own submission list
	onSettled func(Result)
}

type Option func(*Flow)

func WithGeocoder(g *geocode.Client) Option {
	return func(f *Flow) { f.geocoder = g }
}

func WithReaper(r Reaper) Option {
	return func(f *Flow) { f.reaper = r }
}

func WithSettledCallback(cb func(Result)) Option {
	return func(f *Flow) { f.onSettled = cb }
}

func New(provider identity.Provider, users services.UserService, subs services.SubmissionService,
	uploader storage.Uploader, log *logrus.Logger, opts ...Option) *Flow {
	f := &Flow{
		identity: provider,
		users:    users,
		subs:     subs,
		uploader: uploader,
		log:      log,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// PrefillLocation is the editing-stage helper: best-effort reverse
// geocoding, falling back to raw coordinate text. Never fails.
func (f *Flow) PrefillLocation(ctx context.Context, lat, lon float64) string {
	if f.geocoder == nil {
		return geocode.Coords(lat, lon)
	}
	return f.geocoder.ReverseOrCoords(ctx, lat, lon)
}

// Submit runs one attempt for uid. No retry at any step.
func (f *Flow) Submit(ctx context.Context, uid string, in Input) (*Result, error) {
	const op = "Flow.Submit"

	if uid == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "not signed in", nil)
	}

	// validating
	if err := validate(in); err != nil {
		return nil, err
	}

	// image-uploading, only entered when a new file was selected
	photoURL := in.ExistingPhotoURL
	supersededPhoto := ""
	if in.Image != nil {
		uploaded, err := f.uploadImage(ctx, uid, in.Image)
		if err != nil {
			return nil, err
		}
		if old := in.ExistingPhotoURL; old != nil && *old != "" && *old != uploaded {
			supersededPhoto = *old
		}
		photoURL = &uploaded
	}

	// persisting, write 1: identity-provider profile fields are
	// non-authoritative, failure is logged and the flow continues
	if err := f.identity.UpdateProfile(ctx, uid, in.Name, photoURL); err != nil {
		f.log.WithError(err).WithField("uid", uid).Warn("identity profile update failed, continuing")
	}

	// persisting, write 2: the stored user record is authoritative
	fields := models.UserProfileFields{
		Email:       &in.Email,
		DisplayName: &in.Name,
		Phone:       &in.Phone,
		Location:    &in.Location,
		PhotoURL:    photoURL,
	}
	if err := f.users.SaveProfile(ctx, uid, fields); err != nil {
		return nil, stageErr("persisting", err)
	}

	// persisting, write 3: create or update the submission record
	subFields := models.SubmissionFields{
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
		Email:       in.Email,
		Phone:       in.Phone,
		PhotoURL:    photoURL,
	}

	res := Result{PhotoURL: photoURL}
	if in.SubmissionID != "" {
		if err := f.subs.Update(ctx, uid, in.SubmissionID, subFields); err != nil {
			return nil, stageErr("persisting", err)
		}
		res.SubmissionID = in.SubmissionID
		res.Updated = true
	} else {
		id, err := f.subs.Create(ctx, uid, subFields)
		if err != nil {
			return nil, stageErr("persisting", err)
		}
		res.SubmissionID = id
	}

	// The old photo object is only queued for deletion once the stored
	// documents no longer reference it.
	if supersededPhoto != "" {
		f.reapLater(ctx, supersededPhoto)
	}

	// settled(success)
	if f.onSettled != nil {
		f.onSettled(res)
	}
	return &res, nil
}

func validate(in Input) error {
	const op = "Flow.Validate"

	switch {
	case strings.TrimSpace(in.Name) == "":
		return utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	case strings.TrimSpace(in.Description) == "":
		return utils.E(utils.CodeInvalidArgument, op, "description is required", nil)
	case strings.TrimSpace(in.Location) == "":
		return utils.E(utils.CodeInvalidArgument, op, "location is required", nil)
	}
	return nil
}

func (f *Flow) uploadImage(ctx context.Context, uid string, img *Image) (string, error) {
	const op = "Flow.UploadImage"

	if err := storage.ValidateImage(img.ContentType, img.Size); err != nil {
		return "", err
	}

	objectName := storage.ImageObjectName(photoFolder, uid, img.FileName)
	url, err := f.uploader.Upload(ctx, objectName, img.ContentType, img.Data)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "image upload failed", err)
	}
	return url, nil
}

func (f *Flow) reapLater(ctx context.Context, oldURL string) {
	if f.reaper == nil {
		return
	}
	if err := f.reaper.Enqueue(ctx, oldURL); err != nil {
		f.log.WithError(err).Warn("failed to queue superseded photo for deletion")
	}
}

// stageErr re-tags a persistence failure with the stage it happened
// in, keeping the underlying code and safe message.
func stageErr(stage string, err error) error {
	return utils.E(utils.CodeOf(err), "Flow."+stage, utils.MessageOf(err), err)
}
