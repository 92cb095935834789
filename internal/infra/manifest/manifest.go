// Where: internal/infra/manifest/manifest.go
// What: Read declared function capacity settings from SAM or serverless-style manifests.
// Why: The reconcile use case consumes one Manifest shape regardless of the source format.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru/esb-concurrency/internal/domain/capacity"
	"github.com/poruru/esb-concurrency/internal/domain/value"
)

const s3Scheme = "s3://"

var (
	errS3ClientNil       = errors.New("s3 client is nil")
	errUnknownFormat     = errors.New("manifest has neither Resources nor functions")
	errInvalidS3Location = errors.New("invalid s3 location")
)

var functionResourceTypes = map[string]struct{}{
	"AWS::Serverless::Function": {},
	"AWS::Lambda::Function":     {},
}

// S3Getter is the subset of *s3.Client used to fetch remote manifests.
type S3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads manifests from disk or S3.
type Loader struct {
	// S3 is only required for s3:// locations.
	S3 S3Getter
	// Parameters override template parameter defaults.
	Parameters map[string]string
}

// Load reads and parses the manifest at location.
func (l Loader) Load(ctx context.Context, location string) (capacity.Manifest, error) {
	content, err := l.read(ctx, location)
	if err != nil {
		return capacity.Manifest{}, fmt.Errorf("read manifest %s: %w", location, err)
	}
	parsed, err := Parse(content, l.Parameters)
	if err != nil {
		return capacity.Manifest{}, fmt.Errorf("parse manifest %s: %w", location, err)
	}
	return parsed, nil
}

func (l Loader) read(ctx context.Context, location string) ([]byte, error) {
	if !strings.HasPrefix(location, s3Scheme) {
		return os.ReadFile(location)
	}
	if l.S3 == nil {
		return nil, errS3ClientNil
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: %s", errInvalidS3Location, location)
	}
	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Parse decodes a SAM template (Resources) or a serverless-style manifest (functions).
func Parse(content []byte, parameters map[string]string) (capacity.Manifest, error) {
	data, err := decodeYAML(content)
	if err != nil {
		return capacity.Manifest{}, err
	}
	var parsed capacity.Manifest
	switch {
	case value.AsMap(data["Resources"]) != nil:
		parsed = parseSAM(data, value.AsMap(data["Resources"]), parameters)
	case value.AsMap(data["functions"]) != nil:
		parsed = parseServerless(data, value.AsMap(data["functions"]))
	default:
		return capacity.Manifest{}, errUnknownFormat
	}
	if parsed.MarginPercent != nil {
		if err := capacity.CheckMarginPercent(*parsed.MarginPercent); err != nil {
			return capacity.Manifest{}, err
		}
	}
	return parsed, nil
}

func parseSAM(data, resources map[string]any, overrides map[string]string) capacity.Manifest {
	params := templateParameters(data, overrides)
	globals := value.AsMap(value.AsMap(data["Globals"])["Function"])

	out := capacity.Manifest{Functions: map[string]map[string]any{}}
	for _, logicalID := range value.SortedKeys(resources) {
		resource := value.AsMap(resources[logicalID])
		if _, ok := functionResourceTypes[value.AsString(resource["Type"])]; !ok {
			continue
		}
		fields := map[string]any{}
		for key, item := range globals {
			fields[key] = item
		}
		for key, item := range value.AsMap(resource["Properties"]) {
			fields[key] = item
		}
		fields = value.AsMap(resolveRefs(fields, params))
		name := logicalID
		if fnName, ok := fields["FunctionName"].(string); ok && strings.TrimSpace(fnName) != "" {
			name = strings.TrimSpace(fnName)
		}
		out.Functions[name] = fields
	}

	settings := value.AsMap(value.AsMap(data["Metadata"])["ProvisionedConcurrency"])
	if margin, ok := value.AsIntPointer(resolveRefs(settings["MarginPercent"], params)); ok {
		out.MarginPercent = margin
	}
	return out
}

func parseServerless(data, functions map[string]any) capacity.Manifest {
	out := capacity.Manifest{Functions: map[string]map[string]any{}}
	for _, name := range value.SortedKeys(functions) {
		fields := value.AsMap(functions[name])
		if fields == nil {
			fields = map[string]any{}
		}
		out.Functions[name] = fields
	}
	settings := value.AsMap(value.AsMap(data["custom"])["provisionedConcurrency"])
	if margin, ok := value.AsIntPointer(settings["marginPercent"]); ok {
		out.MarginPercent = margin
	}
	return out
}

func templateParameters(data map[string]any, overrides map[string]string) map[string]any {
	params := map[string]any{}
	for name, raw := range value.AsMap(data["Parameters"]) {
		if def, ok := value.AsMap(raw)["Default"]; ok {
			params[name] = def
		}
	}
	for name, override := range overrides {
		params[name] = override
	}
	return params
}
