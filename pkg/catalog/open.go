package catalog

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/molecule"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Table and collection names.
const (
	CatalogTable   = "catalog"
	MoleculesTable = "molecules"
)

// Options select and configure a backend for [Open].
type Options struct {
	Backend  string
	Path     string // file backend
	MongoURI string // mongo backend
	Database string
}

// DB bundles the catalog and the molecule database on one backend.
type DB struct {
	Catalog   *Catalog
	Molecules *Molecules

	client *mongo.Client
}

// Open connects to the backend described by opts.
func Open(ctx context.Context, opts Options, logger *log.Logger) (*DB, error) {
	switch opts.Backend {
	case BackendFile, "":
		if opts.Path == "" {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "file catalog requires a path")
		}
		entries, err := OpenFileStore[Entry](opts.Path, CatalogTable)
		if err != nil {
			return nil, err
		}
		mols, err := OpenFileStore[molecule.Molecule](opts.Path, MoleculesTable)
		if err != nil {
			return nil, err
		}
		return &DB{
			Catalog:   NewCatalog(entries, logger),
			Molecules: NewMolecules(mols, logger),
		}, nil

	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "mongo catalog requires a URI")
		}
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.MongoURI))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "connect to mongo")
		}
		ping := func() error { return client.Ping(ctx, nil) }
		if err := retry(ctx, pingAttempts, pingDelay, transientMongo, ping); err != nil {
			_ = client.Disconnect(ctx)
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "ping mongo")
		}
		db := client.Database(opts.Database)
		return &DB{
			Catalog:   NewCatalog(NewMongoStore[Entry](db.Collection(CatalogTable)), logger),
			Molecules: NewMolecules(NewMongoStore[molecule.Molecule](db.Collection(MoleculesTable)), logger),
			client:    client,
		}, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown catalog backend %q (must be one of: file, mongo)", opts.Backend)
}

// Close flushes both stores and disconnects from MongoDB if connected.
func (d *DB) Close(ctx context.Context) error {
	err := errors.Join(d.Catalog.Close(ctx), d.Molecules.Close(ctx))
	if d.client != nil {
		err = errors.Join(err, d.client.Disconnect(ctx))
	}
	return err
}
