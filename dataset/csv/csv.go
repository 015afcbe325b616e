/*
Package csv reads datasets from line-oriented comma separated records.

Every record is expected to be the decision followed by the values for each
attribute:

	decision,v1,v2,...,vk

Attributes are named after their position, starting at "1".
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
)

/*
Read takes an io.Reader for a CSV stream and a domain and returns the
dataset parsed from the reader.

When the given domain is empty, it is filled with the values observed on
each column. Otherwise every value must be valid for its attribute on the
domain and an error is returned on the first one that is not. The domain
must not be nil.
*/
func Read(reader io.Reader, domain feature.Domain) (*dataset.Dataset, error) {
	samples := []dataset.Sample{}
	err := ReadBySample(reader, domain, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.New(samples), nil
}

/*
ReadBySample takes an io.Reader for a CSV stream, a domain and a lambda
function on an integer and a dataset.Sample that returns a boolean value.
It parses the samples from the reader and for each it calls the lambda
function with the sample and its index as parameters. If the lambda function
returns true, it will continue processing the next sample, otherwise it will
stop. An error is returned if something goes wrong when reading the stream or
parsing a sample.
*/
func ReadBySample(reader io.Reader, domain feature.Domain, lambda func(int, dataset.Sample) (bool, error)) error {
	if domain == nil {
		return fmt.Errorf("reading samples: nil domain")
	}
	observe := len(domain) == 0
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true
	for i := 0; ; i++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading record %d: %v", i+1, err)
		}
		sample, err := parseSample(row, domain, observe)
		if err != nil {
			line, _ := r.FieldPos(0)
			return fmt.Errorf("parsing line %d: %v", line, err)
		}
		ok, err := lambda(i, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadFile takes a filepath string and a domain, opens the file the filepath
points to and uses Read to return the dataset in it. If filepath is "",
os.Stdin is read instead.
*/
func ReadFile(filepath string, domain feature.Domain) (*dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	ds, err := Read(f, domain)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

func parseSample(row []string, domain feature.Domain, observe bool) (dataset.Sample, error) {
	if len(row) == 0 || row[0] == "" {
		return dataset.Sample{}, fmt.Errorf("missing decision")
	}
	choices := make(map[string]string, len(row)-1)
	for i, v := range row[1:] {
		name := strconv.Itoa(i + 1)
		if observe {
			domain.Observe(name, v)
		} else {
			f := domain.Feature(name)
			if f == nil {
				return dataset.Sample{}, fmt.Errorf("value %s for undeclared attribute %s", v, name)
			}
			if ok, err := f.Valid(v); !ok {
				return dataset.Sample{}, err
			}
		}
		choices[name] = v
	}
	return dataset.NewSample(choices, row[0]), nil
}
