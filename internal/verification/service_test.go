package verification_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"ballotaccess/internal/access"
	"ballotaccess/internal/access/store"
	"ballotaccess/internal/passport"
	"ballotaccess/internal/platform/metrics"
	"ballotaccess/internal/verification"
	"ballotaccess/internal/verification/mocks"
	"ballotaccess/pkg/platform/sentinel"
	"ballotaccess/pkg/testutil"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockAccessStore
	metrics *metrics.Metrics
	service *verification.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockAccessStore(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = verification.New(s.store,
		verification.WithMetrics(s.metrics),
		verification.WithLookupTimeout(50*time.Millisecond),
	)
}

func fingerprintOf(raw string) passport.Fingerprint {
	return passport.Derive(passport.MustIdentifier(raw))
}

func (s *ServiceSuite) TestInvalidInputSkipsLookup() {
	tests := []struct {
		input  string
		reason verification.Reason
	}{
		{"", verification.ReasonMissingInput},
		{"   \t ", verification.ReasonMissingInput},
		{"12345", verification.ReasonWrongFormat},
		{"12345678901", verification.ReasonWrongFormat},
		{"12345abcde", verification.ReasonWrongFormat},
	}
	for _, tt := range tests {
		s.Run(fmt.Sprintf("%q", tt.input), func() {
			outcome := s.service.Verify(context.Background(), tt.input)
			s.Equal(verification.StatusInvalidInput, outcome.Status)
			s.Equal(tt.reason, outcome.Reason)
			s.True(outcome.IsFailure())
		})
	}
}

func (s *ServiceSuite) TestLookupUsesDerivedFingerprint() {
	s.store.EXPECT().
		Lookup(gomock.Any(), fingerprintOf("1234567890")).
		Return(&access.Record{Fingerprint: fingerprintOf("1234567890"), AccessGranted: true}, nil)

	outcome := s.service.Verify(context.Background(), "  1234 5678 9 0 ")
	s.Equal(verification.StatusAccessGranted, outcome.Status)
	s.Equal(verification.ReasonNone, outcome.Reason)
	s.True(outcome.Granted())
}

func (s *ServiceSuite) TestAccessDenied() {
	s.store.EXPECT().Lookup(gomock.Any(), gomock.Any()).
		Return(&access.Record{AccessGranted: false}, nil)

	outcome := s.service.Verify(context.Background(), "1234567890")
	s.Equal(verification.StatusAccessDenied, outcome.Status)
	s.False(outcome.Granted())
	s.False(outcome.IsFailure())
}

func (s *ServiceSuite) TestNotFoundIsNotDenied() {
	s.store.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(nil, store.ErrNotFound)

	outcome := s.service.Verify(context.Background(), "1234567890")
	s.Equal(verification.StatusNotFound, outcome.Status)
	s.False(outcome.IsFailure())
}

func (s *ServiceSuite) TestStoreFailuresAreClassified() {
	tests := []struct {
		name   string
		err    error
		reason verification.Reason
	}{
		{"missing data file", fmt.Errorf("%w: /srv/db.sqlite", store.ErrResourceNotFound), verification.ReasonResourceNotFound},
		{"connection failure", fmt.Errorf("acquire connection: %w: %w", sentinel.ErrUnavailable, errors.New("refused")), verification.ReasonConnectionFailed},
		{"corrupt record", fmt.Errorf("%w: access_granted is NULL", store.ErrCorruptRecord), verification.ReasonCorruptRecord},
		{"caller canceled", fmt.Errorf("query: %w", context.Canceled), verification.ReasonCanceled},
		{"unclassified", errors.New("disk on fire"), verification.ReasonInternal},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.store.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			outcome := s.service.Verify(context.Background(), "1234567890")
			s.Equal(verification.StatusStoreUnavailable, outcome.Status)
			s.Equal(tt.reason, outcome.Reason)
			s.Equal(tt.err.Error(), outcome.Detail)
		})
	}
}

func (s *ServiceSuite) TestLookupIsBoundedByTimeout() {
	s.store.EXPECT().Lookup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ passport.Fingerprint) (*access.Record, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	start := time.Now()
	outcome := s.service.Verify(context.Background(), "1234567890")
	s.Less(time.Since(start), 2*time.Second)
	s.Equal(verification.StatusStoreUnavailable, outcome.Status)
	s.Equal(verification.ReasonTimeout, outcome.Reason)
}

func (s *ServiceSuite) TestPanicIsContained() {
	s.store.EXPECT().Lookup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, passport.Fingerprint) (*access.Record, error) {
			panic("driver exploded")
		})

	var outcome verification.Outcome
	s.NotPanics(func() {
		outcome = s.service.Verify(context.Background(), "1234567890")
	})
	s.Equal(verification.StatusStoreUnavailable, outcome.Status)
	s.Equal(verification.ReasonInternal, outcome.Reason)
	s.Contains(outcome.Detail, "driver exploded")
}

func (s *ServiceSuite) TestNilRecordWithoutErrorIsCorrupt() {
	s.store.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(nil, nil)

	outcome := s.service.Verify(context.Background(), "1234567890")
	s.Equal(verification.StatusStoreUnavailable, outcome.Status)
	s.Equal(verification.ReasonCorruptRecord, outcome.Reason)
}

func (s *ServiceSuite) TestOutcomesAreCounted() {
	s.store.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(nil, store.ErrNotFound)

	s.service.Verify(context.Background(), "1234567890")
	s.service.Verify(context.Background(), "")

	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.Outcomes.WithLabelValues("not_found", "")))
	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.Outcomes.WithLabelValues("invalid_input", "missing_input")))
}

func seed(t *testing.T, path string, rows map[string]bool) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE passports (hash TEXT NOT NULL, access_granted BOOLEAN NOT NULL)`)
	require.NoError(t, err)
	for hash, granted := range rows {
		_, err = db.Exec(`INSERT INTO passports (hash, access_granted) VALUES (?, ?)`, hash, granted)
		require.NoError(t, err)
	}
}

// TestVerify_WithSQLiteStore runs the whole pipeline against a real data file.
func TestVerify_WithSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")
	seed(t, path, map[string]bool{
		fingerprintOf("1111111111").String(): true,
		fingerprintOf("2222222222").String(): false,
	})

	st, err := store.NewSQLStore(store.SQLConfig{Driver: store.DriverSQLite, Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	svc := verification.New(st)
	ctx := context.Background()

	testutil.Given(t, "a store with one granted and one denied passport", func(t *testing.T) {
		testutil.When(t, "verifying the granted passport with spaces", func(t *testing.T) {
			outcome := svc.Verify(ctx, " 1111 111111 ")
			testutil.Then(t, "access is granted", func(t *testing.T) {
				assert.Equal(t, verification.StatusAccessGranted, outcome.Status)
			})
		})

		testutil.When(t, "verifying the denied passport", func(t *testing.T) {
			outcome := svc.Verify(ctx, "2222222222")
			testutil.Then(t, "access is denied", func(t *testing.T) {
				assert.Equal(t, verification.StatusAccessDenied, outcome.Status)
			})
		})

		testutil.When(t, "verifying an unknown passport", func(t *testing.T) {
			outcome := svc.Verify(ctx, "3333333333")
			testutil.Then(t, "it is not found", func(t *testing.T) {
				assert.Equal(t, verification.StatusNotFound, outcome.Status)
			})
		})

		testutil.When(t, "verifying the same passport twice", func(t *testing.T) {
			first := svc.Verify(ctx, "1111111111")
			second := svc.Verify(ctx, "1111111111")
			testutil.Then(t, "both outcomes are equal", func(t *testing.T) {
				assert.Equal(t, first, second)
			})
		})
	})
}

func TestVerify_MissingDataFile(t *testing.T) {
	st, err := store.NewSQLStore(store.SQLConfig{
		Driver: store.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "absent.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var outcome verification.Outcome
	require.NotPanics(t, func() {
		outcome = verification.New(st).Verify(context.Background(), "1234567890")
	})
	assert.Equal(t, verification.StatusStoreUnavailable, outcome.Status)
	assert.Equal(t, verification.ReasonResourceNotFound, outcome.Reason)
}

func TestVerify_ConcurrentCallsAreIndependent(t *testing.T) {
	svc := verification.New(store.NewInMemoryStore(
		access.Record{Fingerprint: fingerprintOf("1111111111"), AccessGranted: true},
		access.Record{Fingerprint: fingerprintOf("2222222222"), AccessGranted: false},
	))
	want := map[string]verification.Status{
		"1111111111": verification.StatusAccessGranted,
		"2222222222": verification.StatusAccessDenied,
		"3333333333": verification.StatusNotFound,
		"33333":      verification.StatusInvalidInput,
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	mismatches := 0
	for i := 0; i < 25; i++ {
		for input, status := range want {
			input, status := input, status
			wg.Add(1)
			go func() {
				defer wg.Done()
				if got := svc.Verify(context.Background(), input); got.Status != status {
					mu.Lock()
					mismatches++
					mu.Unlock()
				}
			}()
		}
	}
	wg.Wait()
	assert.Zero(t, mismatches)
}
