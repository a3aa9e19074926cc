package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Outputs lists the known outputs. All but cache-predictions need a test
// network.
var Outputs = []string{
	"recall-precision",
	"f-score",
	"roc",
	"markedness",
	"fmax",
	"precision-at-k",
	"cache-predictions",
	"cache-evaluations",
	"store",
}

type PredictorProfile struct {
	Name        string         `mapstructure:"name" json:"name" yaml:"name" validate:"required"`
	DisplayName string         `mapstructure:"displayname" json:"displayname,omitempty" yaml:"displayname,omitempty"`
	Parameters  map[string]any `mapstructure:"parameters" json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Profile configures a run.
type Profile struct {
	TrainingFile  string             `mapstructure:"training-file" json:"training-file" yaml:"training-file" validate:"required"`
	TestFile      string             `mapstructure:"test-file" json:"test-file,omitempty" yaml:"test-file,omitempty"`
	Label         string             `mapstructure:"label" json:"label,omitempty" yaml:"label,omitempty"`
	Eligible      string             `mapstructure:"eligible" json:"eligible,omitempty" yaml:"eligible,omitempty"`
	Exclude       string             `mapstructure:"exclude" json:"exclude" yaml:"exclude"`
	MinDegree     int                `mapstructure:"min_degree" json:"min_degree" yaml:"min_degree" validate:"gte=0"`
	Output        []string           `mapstructure:"output" json:"output" yaml:"output" validate:"dive,output"`
	Interpolation bool               `mapstructure:"interpolation" json:"interpolation" yaml:"interpolation"`
	Steps         int                `mapstructure:"steps" json:"steps" yaml:"steps" validate:"gte=1"`
	Jobs          int                `mapstructure:"jobs" json:"jobs" yaml:"jobs" validate:"gte=1"`
	OutputDir     string             `mapstructure:"output-dir" json:"output-dir,omitempty" yaml:"output-dir,omitempty"`
	Database      string             `mapstructure:"database" json:"database,omitempty" yaml:"database,omitempty"`
	PrecisionAt   int                `mapstructure:"precision_at" json:"precision_at" yaml:"precision_at" validate:"gte=1"`
	FMaxBeta      float64            `mapstructure:"fmax_beta" json:"fmax_beta" yaml:"fmax_beta" validate:"gt=0"`
	Predictors    []PredictorProfile `mapstructure:"predictors" json:"predictors" yaml:"predictors" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("output", func(fl validator.FieldLevel) bool {
		name := strings.ToLower(fl.Field().String())
		for _, o := range Outputs {
			if o == name {
				return true
			}
		}
		return false
	})
}

// NewViper returns a viper instance holding the default profile, reading
// LINKPRED_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("exclude", "old")
	v.SetDefault("min_degree", 1)
	v.SetDefault("output", []string{"recall-precision"})
	v.SetDefault("interpolation", true)
	v.SetDefault("steps", 1)
	v.SetDefault("jobs", 1)
	v.SetDefault("precision_at", 10)
	v.SetDefault("fmax_beta", 1.0)
	for _, key := range []string{"training-file", "test-file", "label", "eligible", "output-dir", "database"} {
		v.SetDefault(key, "")
	}
	v.SetEnvPrefix("LINKPRED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// NewProfileFromFile reads the JSON or YAML profile filename on top of the
// values v already holds. An empty filename only decodes v.
func NewProfileFromFile(v *viper.Viper, fs afero.Fs, filename string) (profile Profile, err error) {
	if filename != "" {
		v.SetFs(fs)
		v.SetConfigFile(filename)
		if err = v.ReadInConfig(); err != nil {
			return profile, fmt.Errorf("loading profile %s: %w", filename, err)
		}
	}
	if err = v.Unmarshal(&profile); err != nil {
		return profile, err
	}
	for i, o := range profile.Output {
		profile.Output[i] = strings.ToLower(o)
	}
	return profile, nil
}

// Validate checks the profile, naming every field that fails.
func (p *Profile) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("invalid profile field '%s': rule '%s' (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

func (p *Profile) YAML() ([]byte, error) {
	return yaml.Marshal(p)
}
