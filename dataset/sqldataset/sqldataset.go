/*
Package sqldataset loads datasets from SQL database tables.

Each row of the table is a sample. The decision column holds the decision of
the sample and every other column is an attribute named after the column.
NULL attribute values are left undefined on the sample.

SQLite3 and PostgreSQL databases are supported through the drivers this
package registers.
*/
package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	// Import of postgres driver
	_ "github.com/lib/pq"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
)

/*
Open takes a database URL and returns a *sql.DB for it. URLs with the
postgres:// or postgresql:// schemes are opened with the PostgreSQL driver,
anything else is taken as the path to an SQLite3 database file.
*/
func Open(url string) (*sql.DB, error) {
	driver := "sqlite3"
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		driver = "postgres"
	}
	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %v", driver, err)
	}
	return db, nil
}

/*
Load takes a context, a database, a table name, the name of the decision
column and a domain, and returns the dataset with every row of the table.

As with the CSV loader, an empty domain is filled with the values observed
for each attribute column, while a non-empty one is used to validate them.
*/
func Load(ctx context.Context, db *sql.DB, table, decisionColumn string, domain feature.Domain) (*dataset.Dataset, error) {
	if domain == nil {
		return nil, fmt.Errorf("loading samples: nil domain")
	}
	if err := validIdentifier(table); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %v", table, err)
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of table %s: %v", table, err)
	}
	decisionIndex := -1
	for i, c := range columns {
		if c == decisionColumn {
			decisionIndex = i
			break
		}
	}
	if decisionIndex < 0 {
		return nil, fmt.Errorf("table %s has no decision column %s", table, decisionColumn)
	}
	observe := len(domain) == 0
	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	var samples []dataset.Sample
	for row := 1; rows.Next(); row++ {
		if err = rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row %d: %v", row, err)
		}
		decision := values[decisionIndex]
		if !decision.Valid || decision.String == "" {
			return nil, fmt.Errorf("parsing row %d: missing decision", row)
		}
		choices := make(map[string]string, len(columns)-1)
		for i, v := range values {
			if i == decisionIndex || !v.Valid {
				continue
			}
			name := columns[i]
			if observe {
				domain.Observe(name, v.String)
			} else {
				f := domain.Feature(name)
				if f == nil {
					continue
				}
				if ok, err := f.Valid(v.String); !ok {
					return nil, fmt.Errorf("parsing row %d: %v", row, err)
				}
			}
			choices[name] = v.String
		}
		samples = append(samples, dataset.NewSample(choices, decision.String))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading table %s: %v", table, err)
	}
	return dataset.New(samples), nil
}

func validIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("empty table name")
	}
	if strings.ContainsAny(name, `"`) {
		return fmt.Errorf(`table name '%s' contains invalid character '"'`, name)
	}
	return nil
}
