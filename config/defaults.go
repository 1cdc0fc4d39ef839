package config

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

func isAllowedOverrideType(existing interface{}, v interface{}) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map:
		return false
	case reflect.Array, reflect.Slice:
		// only override with array if it has a length
		return reflect.ValueOf(v).Len() > 0
	case reflect.Int, reflect.Bool, reflect.String:
		// enable overriding with "", 0, false
		// warning: config objects should always use "omitempty" or _all_ fields will get overwritten
		return true
	}
	//nolint
	if reflect.ValueOf(v).IsZero() {
		// don't overwrite with 0 values or many things will get
		// overwritten
		return false
	}
	return true
}

func isMap(v interface{}) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Map
}

func recursiveOverride(defaults map[string]interface{}, overrides map[string]interface{}) {
	for key, val := range overrides {
		if existingVal, ok := defaults[key]; ok {
			if isMap(existingVal) && isMap(val) {
				switch existingVal.(type) {
				case map[string]interface{}:
					recursiveOverride(existingVal.(map[string]interface{}), val.(map[string]interface{}))
				default:
					panic(fmt.Sprintf("unknown map: %T", existingVal))
				}
			} else {
				if isAllowedOverrideType(existingVal, val) {
					defaults[key] = val
				}
				// full arrays or maps are not overwritten
			}
		} else {
			// just add it
			defaults[key] = val
		}
	}
}

// ApplyDefaults merges overrideCfg on top of defaultCfg by yaml
// round-trip, writing the result into newCfg.
func ApplyDefaults(defaultCfg interface{}, overrideCfg interface{}, newCfg interface{}) error {
	bz, err := yaml.Marshal(defaultCfg)
	if err != nil {
		return err
	}
	defaults := map[string]interface{}{}
	err = yaml.Unmarshal(bz, &defaults)
	if err != nil {
		return err
	}

	bz, err = yaml.Marshal(overrideCfg)
	if err != nil {
		return err
	}

	overrides := map[string]interface{}{}
	err = yaml.Unmarshal(bz, &overrides)
	if err != nil {
		return err
	}
	recursiveOverride(defaults, overrides)

	// serde to new cfg
	bz, err = yaml.Marshal(defaults)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(bz, newCfg)
}
