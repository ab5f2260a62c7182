package cmdutil

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shale-scm/shale/src/internal/errors"
)

// Populate populates an object with environment variables.
//
// The environment variable for each field is named by the field's env tag:
//
//	`env:"KEY"`                 optional, zero value when unset
//	`env:"KEY, required"`       error when unset
//	`env:"KEY, default=VALUE"`  VALUE when unset
func Populate(object interface{}) error {
	return populateInternal(reflect.ValueOf(object), false)
}

const (
	cannotParseErr              = "cannot parse"
	envKeyNotSetWhenRequiredErr = "env key not set when required"
	expectedPointerErr          = "expected pointer"
	expectedStructErr           = "expected struct"
	fieldTypeNotAllowedErr      = "field type not allowed"
	invalidTagErr               = "invalid tag, must be KEY,{required},{default=DEFAULT_VALUE}"
)

func populateInternal(reflectValue reflect.Value, recursive bool) error {
	if reflectValue.Type().Kind() == reflect.Ptr {
		reflectValue = reflectValue.Elem()
	} else if !recursive {
		return errors.Errorf("%s: %v", expectedPointerErr, reflectValue.Type())
	}
	if reflectValue.Type().Kind() != reflect.Struct {
		return errors.Errorf("%s: %v", expectedStructErr, reflectValue.Type())
	}
	for i := 0; i < reflectValue.NumField(); i++ {
		structField := reflectValue.Type().Field(i)
		if structField.Type.Kind() == reflect.Struct {
			if err := populateInternal(reflectValue.Field(i), true); err != nil {
				return err
			}
			continue
		}
		envTag, err := getEnvTag(structField)
		if err != nil {
			return err
		}
		if envTag == nil {
			continue
		}
		value := os.Getenv(envTag.key)
		if value == "" {
			value = envTag.defaultValue
		}
		if value == "" {
			if envTag.required {
				return errors.Errorf("%s: %s %v", envKeyNotSetWhenRequiredErr, envTag.key, reflectValue.Type())
			}
			continue
		}
		parsedValue, err := parseField(structField, value)
		if err != nil {
			return err
		}
		reflectValue.Field(i).Set(reflect.ValueOf(parsedValue))
	}
	return nil
}

type envTag struct {
	key          string
	required     bool
	defaultValue string
}

func getEnvTag(structField reflect.StructField) (*envTag, error) {
	tag := structField.Tag.Get("env")
	if tag == "" {
		return nil, nil
	}
	split := strings.SplitN(tag, ",", 2)
	envTag := &envTag{
		key: split[0],
	}
	if len(split) == 1 {
		return envTag, nil
	}
	split = strings.SplitN(strings.TrimSpace(split[1]), "=", 2)
	switch split[0] {
	case "required":
		envTag.required = true
	case "default":
		if len(split) != 2 {
			return nil, errors.Errorf("%s: %s", invalidTagErr, tag)
		}
		envTag.defaultValue = split[1]
	default:
		return nil, errors.Errorf("%s: %s", invalidTagErr, tag)
	}
	return envTag, nil
}

func parseField(structField reflect.StructField, value string) (interface{}, error) {
	switch structField.Type.Kind() {
	case reflect.Bool:
		parsedValue, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %q as bool for %s", cannotParseErr, value, structField.Name)
		}
		return parsedValue, nil
	case reflect.String:
		return value, nil
	case reflect.Int:
		parsedValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %q as int for %s", cannotParseErr, value, structField.Name)
		}
		return int(parsedValue), nil
	case reflect.Int64:
		if structField.Type == reflect.TypeOf(time.Duration(0)) {
			parsedValue, err := time.ParseDuration(value)
			if err != nil {
				return nil, errors.Wrapf(err, "%s %q as duration for %s", cannotParseErr, value, structField.Name)
			}
			return parsedValue, nil
		}
		parsedValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %q as int64 for %s", cannotParseErr, value, structField.Name)
		}
		return parsedValue, nil
	case reflect.Uint64:
		parsedValue, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %q as uint64 for %s", cannotParseErr, value, structField.Name)
		}
		return parsedValue, nil
	case reflect.Float64:
		parsedValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %q as float64 for %s", cannotParseErr, value, structField.Name)
		}
		return parsedValue, nil
	}
	return nil, errors.Errorf("%s: %v for %s", fieldTypeNotAllowedErr, structField.Type.Kind(), structField.Name)
}
