/*
Package mongodataset loads datasets from MongoDB collections.

Each document of the collection is a sample. The decision field holds the
decision of the sample and every other top-level field except _id is an
attribute named after the field.
*/
package mongodataset

import (
	"fmt"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
)

/*
Load takes a MongoDB session, a database name, a collection name, the name
of the decision field and a domain, and returns the dataset with every
document in the collection, in natural order. An empty database name uses
the default database of the session.

An empty domain is filled with the values observed for each field, while a
non-empty one is used to validate them.
*/
func Load(session *mgo.Session, db, collection, decisionField string, domain feature.Domain) (*dataset.Dataset, error) {
	if domain == nil {
		return nil, fmt.Errorf("loading samples: nil domain")
	}
	observe := len(domain) == 0
	iter := session.DB(db).C(collection).Find(nil).Iter()
	var samples []dataset.Sample
	var doc bson.M
	for i := 1; iter.Next(&doc); i++ {
		sample, err := parseDocument(doc, decisionField, domain, observe)
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("parsing document %d: %v", i, err)
		}
		samples = append(samples, sample)
		doc = nil
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("reading collection %s: %v", collection, err)
	}
	return dataset.New(samples), nil
}

func parseDocument(doc bson.M, decisionField string, domain feature.Domain, observe bool) (dataset.Sample, error) {
	d, ok := doc[decisionField]
	if !ok || d == nil {
		return dataset.Sample{}, fmt.Errorf("missing decision field %s", decisionField)
	}
	choices := make(map[string]string, len(doc))
	for name, raw := range doc {
		if name == "_id" || name == decisionField || raw == nil {
			continue
		}
		v := fmt.Sprintf("%v", raw)
		if observe {
			domain.Observe(name, v)
		} else {
			f := domain.Feature(name)
			if f == nil {
				continue
			}
			if ok, err := f.Valid(v); !ok {
				return dataset.Sample{}, err
			}
		}
		choices[name] = v
	}
	return dataset.NewSample(choices, fmt.Sprintf("%v", d)), nil
}
