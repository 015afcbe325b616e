package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	mgo "gopkg.in/mgo.v2"
	redis "gopkg.in/redis.v5"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/csv"
	"github.com/pbanos/grove/dataset/mongodataset"
	"github.com/pbanos/grove/dataset/sqldataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/feature/yaml"
	"github.com/pbanos/grove/tree"
	treejson "github.com/pbanos/grove/tree/json"
	"github.com/pbanos/grove/tree/redisstore"
)

/*
dataConfig holds the flags telling where to read a dataset from: a CSV
file or STDIN, an SQLite3 file, a PostgreSQL database or a MongoDB database.
*/
type dataConfig struct {
	dataInput     string
	table         string
	decision      string
	metadataInput string
}

func (dc *dataConfig) addFlags(cmd *cobra.Command, use string) {
	cmd.PersistentFlags().StringVarP(&(dc.dataInput), "input", "i", "", fmt.Sprintf("path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgres://) or MongoDB (mongodb://) connection URL with data to %s (defaults to STDIN, interpreted as CSV)", use))
	cmd.PersistentFlags().StringVar(&(dc.table), "table", "", "table or collection holding the samples on a database input (required for databases)")
	cmd.PersistentFlags().StringVar(&(dc.decision), "decision", "decision", "column or field holding the decision of the samples on a database input")
	cmd.PersistentFlags().StringVarP(&(dc.metadataInput), "metadata", "m", "", "path to a YML file declaring the values each attribute may take (defaults to the values observed on the input)")
}

func (dc *dataConfig) Validate() error {
	if dc.isDatabase() && dc.table == "" {
		return fmt.Errorf("required table flag was not set for database input %s", dc.dataInput)
	}
	return nil
}

func (dc *dataConfig) isDatabase() bool {
	return dc.isPostgreSQL() || dc.isSqlite3() || dc.isMongoDB()
}

func (dc *dataConfig) isPostgreSQL() bool {
	return strings.HasPrefix(dc.dataInput, "postgres://") || strings.HasPrefix(dc.dataInput, "postgresql://")
}

func (dc *dataConfig) isSqlite3() bool {
	return strings.HasSuffix(dc.dataInput, ".db")
}

func (dc *dataConfig) isMongoDB() bool {
	return strings.HasPrefix(dc.dataInput, "mongodb://")
}

/*
load reads the domain from the metadata file, if any, and the dataset from
the input. Without metadata, the domain is made of the values observed on the
input.
*/
func (dc *dataConfig) load(ctx context.Context, logger *zap.Logger) (feature.Domain, *dataset.Dataset, error) {
	domain := feature.Domain{}
	if dc.metadataInput != "" {
		var err error
		domain, err = yaml.ReadDomainFromFile(dc.metadataInput)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("Read metadata", zap.String("path", dc.metadataInput), zap.Int("attributes", len(domain)))
	}
	var ds *dataset.Dataset
	var err error
	switch {
	case dc.isMongoDB():
		ds, err = dc.mongoDBDataset(domain, logger)
	case dc.isPostgreSQL(), dc.isSqlite3():
		ds, err = dc.sqlDataset(ctx, domain, logger)
	default:
		if dc.dataInput == "" {
			logger.Debug("Reading dataset from STDIN")
		} else {
			logger.Debug("Reading dataset from CSV file", zap.String("path", dc.dataInput))
		}
		ds, err = csv.ReadFile(dc.dataInput, domain)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading dataset: %w", err)
	}
	logger.Info("Dataset loaded", zap.Int("samples", ds.Count()), zap.Int("attributes", len(domain)))
	return domain, ds, nil
}

func (dc *dataConfig) sqlDataset(ctx context.Context, domain feature.Domain, logger *zap.Logger) (*dataset.Dataset, error) {
	logger.Debug("Opening SQL database", zap.String("table", dc.table))
	db, err := sqldataset.Open(dc.dataInput)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return sqldataset.Load(ctx, db, dc.table, dc.decision, domain)
}

func (dc *dataConfig) mongoDBDataset(domain feature.Domain, logger *zap.Logger) (*dataset.Dataset, error) {
	logger.Debug("Dialing MongoDB", zap.String("collection", dc.table))
	session, err := mgo.Dial(dc.dataInput)
	if err != nil {
		return nil, fmt.Errorf("dialing MongoDB: %v", err)
	}
	defer session.Close()
	return mongodataset.Load(session, "", dc.table, dc.decision, domain)
}

/*
outputForest writes the trees of a forest in JSON to the file at the given
path, to STDOUT if the path is empty, or to a redis server if the path is a
redis://host:port/name URL.
*/
func outputForest(ctx context.Context, outputPath string, trees []*tree.Tree) error {
	if strings.HasPrefix(outputPath, "redis://") {
		store, name, closeStore, err := openForestStore(outputPath)
		if err != nil {
			return err
		}
		defer closeStore()
		return store.Save(ctx, name, trees)
	}
	var f *os.File
	var err error
	if outputPath == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	return treejson.WriteForest(f, trees)
}

/*
loadForest reads the trees of a forest in JSON from the file at the given
path or from a redis server if the path is a redis://host:port/name URL.
*/
func loadForest(ctx context.Context, filepath string) ([]*tree.Tree, error) {
	if strings.HasPrefix(filepath, "redis://") {
		store, name, closeStore, err := openForestStore(filepath)
		if err != nil {
			return nil, err
		}
		defer closeStore()
		return store.Load(ctx, name)
	}
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading forest in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	trees, err := treejson.ReadForest(f)
	if err != nil {
		err = fmt.Errorf("parsing forest in JSON from %s: %v", filepath, err)
	}
	return trees, err
}

// forestKeyPrefix prefixes the redis keys forests are stored under.
const forestKeyPrefix = "grove"

func parseForestURL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing forest URL: %v", err)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || name == "" {
		return "", "", fmt.Errorf("forest URL %s must look like redis://host:port/name", rawURL)
	}
	return u.Host, name, nil
}

func openForestStore(rawURL string) (*redisstore.Store, string, func() error, error) {
	addr, name, err := parseForestURL(rawURL)
	if err != nil {
		return nil, "", nil, err
	}
	rc := redis.NewClient(&redis.Options{Addr: addr})
	return redisstore.New(rc, forestKeyPrefix), name, rc.Close, nil
}
