// Package firestore stores profiles in the "users" collection and plants in
// the "plants" collection of Cloud Firestore. Plant subscriptions use
// Firestore's native query snapshot listeners.
package firestore

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/store"
)

const (
	usersCollection  = "users"
	plantsCollection = "plants"
	defaultDatabase  = "(default)"
)

// Backend holds the Firestore repositories
type Backend struct {
	client   *fs.Client
	profiles *ProfileRepository
	plants   *PlantRepository
}

type options struct {
	clientOpts []option.ClientOption
}

type Option func(*options)

// WithCredentialsFile authenticates with a service account key file instead
// of application default credentials
func WithCredentialsFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.clientOpts = append(o.clientOpts, option.WithCredentialsFile(path))
		}
	}
}

// WithClientOptions passes raw client options, e.g. for the emulator
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(o *options) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// Open creates a Firestore client for projectID and database
func Open(ctx context.Context, projectID, database string, logger *logging.Logger, opts ...Option) (*Backend, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var client *fs.Client
	var err error

	if database != "" && database != defaultDatabase {
		client, err = fs.NewClientWithDatabase(ctx, projectID, database, o.clientOpts...)
	} else {
		client, err = fs.NewClient(ctx, projectID, o.clientOpts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return NewBackend(client, logger), nil
}

// NewBackend wraps an existing client
func NewBackend(client *fs.Client, logger *logging.Logger) *Backend {
	return &Backend{
		client:   client,
		profiles: NewProfileRepository(client),
		plants:   NewPlantRepository(client, logger),
	}
}

func (b *Backend) Profiles() profile.Repository { return b.profiles }
func (b *Backend) Plants() plant.Repository     { return b.plants }

func (b *Backend) Close() error {
	return b.client.Close()
}

// classify maps gRPC status codes onto the store taxonomy. Unauthenticated and
// PermissionDenied describe the server's own credentials, so they are failures
// rather than a reason to send the user back to sign-in.
func classify(op string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s: %w", op, store.ErrAlreadyExists)
	}
	return store.Failed(op, err)
}
