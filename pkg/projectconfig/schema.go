package projectconfig

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// SchemaID is the $id of the settings schema.
const SchemaID = "https://github.com/MacroPower/cordova-set-version/settings.schema.json"

// Schema returns the JSON schema of [Settings].
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		FieldNameTag:              "yaml",
	}

	s := r.ReflectFromType(reflect.TypeOf(Settings{}))
	s.ID = SchemaID
	s.Title = DefaultFileName
	s.Description = "Settings for cordova-set-version."

	return s
}

// SchemaJSON returns the indented JSON encoding of [Schema].
func SchemaJSON() ([]byte, error) {
	b, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json schema: %w", err)
	}

	return b, nil
}
