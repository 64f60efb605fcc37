// backend/src/parsers/factory.go
package parsers

import "fmt"

func GetParser(source string) (Parser, error) {
	switch source {
	case "csv":
		return NewCSVParser(), nil
	case "json":
		return NewJSONParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
