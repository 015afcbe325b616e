/*
Package yaml provides methods to parse attribute domains, also known as
metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pbanos/grove/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadDomain takes a slice of bytes with a domain specification in YML and
returns the domain parsed from it or an error.
The YML is expected to be an object containing a features property. The value
for this should be an object with a property for each attribute with its name
and a list of the values it may take. Value order is preserved.

	features:
	  "1": [sunny, overcast, rain]
	  "2": [hot, mild, cool]
*/
func ReadDomain(md []byte) (feature.Domain, error) {
	metadata := struct {
		Features yaml.MapSlice
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if metadata.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	domain := feature.Domain{}
	for _, item := range metadata.Features {
		fn := fmt.Sprintf("%v", item.Key)
		values, ok := item.Value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid declaration of type %T for feature %s: only lists of discrete values are supported", item.Value, fn)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("feature %s declares no values", fn)
		}
		stringVs := make([]string, 0, len(values))
		for _, v := range values {
			stringVs = append(stringVs, fmt.Sprintf("%v", v))
		}
		domain[fn] = feature.NewDiscreteFeature(fn, stringVs)
	}
	return domain, nil
}

/*
ReadDomainFromFile takes a filepath string, reads its contents and uses
ReadDomain to parse it and return the parsed domain or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadDomainFromFile(filepath string) (feature.Domain, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	domain, err := ReadDomain(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return domain, err
}
