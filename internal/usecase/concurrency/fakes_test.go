// Where: internal/usecase/concurrency/fakes_test.go
// What: In-memory provider, logger, and progress fakes.
// Why: Exercise the reconcile protocol without the AWS SDK.
package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

const testARNPrefix = "arn:aws:lambda:ap-northeast-1:123456789012:function:"

type fakeProvider struct {
	mu       sync.Mutex
	versions map[string][]string
	// records[function][version] = requested
	records map[string]map[string]int
	// pollsUntilReady is how many in-progress polls precede READY.
	pollsUntilReady int
	polls           map[string]int
	extraRecords    map[string][]capacity.ProvisionedRecord

	listErr   map[string]error
	putErr    map[string]error
	statusErr map[string]error

	puts    []string
	deletes []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		versions:     map[string][]string{},
		records:      map[string]map[string]int{},
		polls:        map[string]int{},
		extraRecords: map[string][]capacity.ProvisionedRecord{},
		listErr:      map[string]error{},
		putErr:       map[string]error{},
		statusErr:    map[string]error{},
	}
}

func (f *fakeProvider) seed(function, version string, requested int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records[function] == nil {
		f.records[function] = map[string]int{}
	}
	f.records[function][version] = requested
}

func (f *fakeProvider) holders(function string) map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for version, requested := range f.records[function] {
		out[version] = requested
	}
	return out
}

func (f *fakeProvider) ListVersions(_ context.Context, function string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.versions[function]...), nil
}

func (f *fakeProvider) ListProvisionedRecords(_ context.Context, function string) ([]capacity.ProvisionedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[function]; err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(f.records[function]))
	for version := range f.records[function] {
		versions = append(versions, version)
	}
	sort.Strings(versions)
	out := append([]capacity.ProvisionedRecord(nil), f.extraRecords[function]...)
	for _, version := range versions {
		requested := f.records[function][version]
		out = append(out, capacity.ProvisionedRecord{
			ResourceID: testARNPrefix + function + ":" + version,
			Requested:  requested,
			Available:  requested,
			Allocated:  requested,
			Status:     capacity.StatusReady,
		})
	}
	return out, nil
}

func (f *fakeProvider) PutProvisionedCapacity(_ context.Context, function, version string, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.putErr[function]; err != nil {
		return err
	}
	if f.records[function] == nil {
		f.records[function] = map[string]int{}
	}
	f.records[function][version] = count
	f.puts = append(f.puts, fmt.Sprintf("%s:%s=%d", function, version, count))
	return nil
}

func (f *fakeProvider) DeleteProvisionedCapacity(_ context.Context, function, version string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[function][version]; !ok {
		return errors.New("ProvisionedConcurrencyConfigNotFoundException")
	}
	delete(f.records[function], version)
	f.deletes = append(f.deletes, function+":"+version)
	return nil
}

func (f *fakeProvider) GetProvisionedStatus(_ context.Context, function, version string) (capacity.ProvisionedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.statusErr[function]; err != nil {
		return capacity.ProvisionedRecord{}, err
	}
	key := function + ":" + version
	f.polls[key]++
	requested := f.records[function][version]
	if f.polls[key] <= f.pollsUntilReady {
		return capacity.ProvisionedRecord{Version: version, Requested: requested, Status: capacity.StatusInProgress}, nil
	}
	return capacity.ProvisionedRecord{
		Version:   version,
		Requested: requested,
		Available: requested,
		Allocated: requested,
		Status:    capacity.StatusReady,
	}, nil
}

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) errorText() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.errors, "\n")
}

type fakeProgress struct {
	mu      sync.Mutex
	created []string
	live    int
}

func (p *fakeProgress) Create(msg string) ProgressHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, msg)
	p.live++
	return &fakeHandle{progress: p}
}

type fakeHandle struct {
	progress *fakeProgress
	removed  bool
}

func (h *fakeHandle) Remove() {
	h.progress.mu.Lock()
	defer h.progress.mu.Unlock()
	if h.removed {
		return
	}
	h.removed = true
	h.progress.live--
}

func noSleep(context.Context, time.Duration) error { return nil }
