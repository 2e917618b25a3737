package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forkerator/internal/policies"
	"forkerator/internal/types"
)

type fakePlatform struct {
	platform types.Platform
	err      error
}

func (f fakePlatform) Detect() (types.Platform, error) {
	return f.platform, f.err
}

type fakeListing struct {
	repos    string
	packages string
	calls    int
}

func (f *fakeListing) RepositoryListing(context.Context, types.Distribution) (string, error) {
	f.calls++
	return f.repos, nil
}

func (f *fakeListing) PackageListing(context.Context, types.Distribution) (string, error) {
	f.calls++
	return f.packages, nil
}

type fakePolicy struct {
	upstream  types.UpstreamPolicy
	approvals types.ApprovalsPolicy
	err       error
}

func (f fakePolicy) LoadUpstream(string) (types.UpstreamPolicy, error) {
	return f.upstream, f.err
}

func (f fakePolicy) LoadApprovals(string) (types.ApprovalsPolicy, error) {
	return f.approvals, f.err
}

type fakeReport struct {
	audit   types.AuditReport
	mapping types.RepositoryMapping
}

func (f *fakeReport) WriteAudit(report types.AuditReport) error {
	f.audit = report
	return nil
}

func (f *fakeReport) WriteRepositories(mapping types.RepositoryMapping) error {
	f.mapping = mapping
	return nil
}

type fakeMetrics struct {
	path    string
	summary types.AuditSummary
}

func (f *fakeMetrics) WriteSummary(path string, summary types.AuditSummary) error {
	f.path = path
	f.summary = summary
	return nil
}

var fixedTime = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func newTestService(platform types.Platform, listing *fakeListing, policy fakePolicy) (Service, *fakeReport, *fakeMetrics) {
	report := &fakeReport{}
	metrics := &fakeMetrics{}
	return Service{
		Platform: fakePlatform{platform: platform},
		Listing:  listing,
		Policy:   policy,
		Report:   report,
		Metrics:  metrics,
		Clock:    func() time.Time { return fixedTime },
		Hostname: func() (string, error) { return "host-01", nil },
		RunID:    func() string { return "run-1" },
	}, report, metrics
}

func auditRequest() AuditRequest {
	return AuditRequest{UpstreamReposPath: "config.yaml", ApprovalsPath: "approvals.yaml"}
}

func TestAuditDebianEndToEnd(t *testing.T) {
	listing := &fakeListing{
		repos:    "deb http://archive.example/ubuntu/ focal main\n",
		packages: "Listing... Done\ncurl/focal,now 7.68.0-1 amd64 [installed]\n",
	}
	service, report, metrics := newTestService(
		types.Platform{Name: "ubuntu", Distribution: types.DistributionDebian},
		listing,
		fakePolicy{},
	)

	result, err := service.Audit(t.Context(), auditRequest())
	require.NoError(t, err)

	want := types.PackageDetails{
		"curl": {Version: "7.68.0", Repository: "http://archive.example/ubuntu/"},
	}
	if diff := cmp.Diff(want, result.Residual); diff != "" {
		t.Fatalf("unexpected residual (-want +got):\n%s", diff)
	}
	require.Len(t, report.audit.Rows, 1)
	assert.Equal(t, "curl", report.audit.Rows[0].Package)
	assert.Equal(t, "host-01", report.audit.Run.Hostname)
	assert.Equal(t, "ubuntu", report.audit.Run.Distribution)
	assert.Equal(t, fixedTime, report.audit.Run.FinishedAt)
	assert.Equal(t, 1, metrics.summary.Flagged)
	assert.Equal(t, 1, metrics.summary.Installed)
	assert.Equal(t, 1, metrics.summary.Repositories)
}

func TestAuditRedHatEndToEnd(t *testing.T) {
	listing := &fakeListing{
		repos:    "Repo-id      : base/7/x86_64\nRepo-baseurl : http://mirror.example/os/x86_64/\n",
		packages: "Installed Packages\nzlib.x86_64  1.2.7-17.el7  @base\nkernel.x86_64  3.10.0-514.el7  @anaconda\n",
	}
	service, _, _ := newTestService(
		types.Platform{Name: "centos", Distribution: types.DistributionRedHat},
		listing,
		fakePolicy{upstream: types.UpstreamPolicy{UpstreamRepos: []string{"http://mirror.example/os/x86_64/"}}},
	)

	result, err := service.Audit(t.Context(), auditRequest())
	require.NoError(t, err)
	assert.NotContains(t, result.Residual, "zlib.x86_64")
	want := types.PackageDetails{
		"kernel.x86_64": {Version: "3.10.0-514.el7", Repository: "anaconda"},
	}
	if diff := cmp.Diff(want, result.Residual); diff != "" {
		t.Fatalf("unexpected residual (-want +got):\n%s", diff)
	}
}

func TestAuditApprovedForkAndUnresolved(t *testing.T) {
	listing := &fakeListing{
		repos: "deb http://archive.example/ubuntu/ focal main\ndeb http://ppa.example/ubuntu/ focal-ppa main\n",
		packages: "nginx/focal-ppa,now 1.18.0-0ubuntu1 amd64 [installed]\n" +
			"redis/focal-ppa,now 6.0.9-1 amd64 [installed]\n" +
			"zip/focal,now 3.0-11 amd64 [installed]\n" +
			"chrome/stable,now 90.0.4430.93-1 amd64 [installed]\n",
	}
	service, report, metrics := newTestService(
		types.Platform{Name: "ubuntu", Distribution: types.DistributionDebian},
		listing,
		fakePolicy{
			upstream: types.UpstreamPolicy{UpstreamRepos: []string{"http://archive.example/ubuntu/"}},
			approvals: types.ApprovalsPolicy{ApprovedForks: map[string]types.ApprovedFork{
				"nginx": {Versions: types.ForkVersions{"1.18.0"}, Category: "web"},
				"redis": {Versions: types.ForkVersions{"5.0.7"}, Category: "db"},
			}},
		},
	)

	req := auditRequest()
	req.Category = true
	req.ShowUnresolved = true
	req.MetricsFile = "/var/lib/node_exporter/forkerator.prom"
	result, err := service.Audit(t.Context(), req)
	require.NoError(t, err)

	want := types.PackageDetails{
		"redis": {Version: "6.0.9", Repository: "http://ppa.example/ubuntu/"},
	}
	if diff := cmp.Diff(want, result.Residual); diff != "" {
		t.Fatalf("unexpected residual (-want +got):\n%s", diff)
	}
	require.Len(t, report.audit.Rows, 1)
	assert.Equal(t, "db", report.audit.Rows[0].Category)
	require.Len(t, report.audit.Unresolved, 1)
	assert.Equal(t, "chrome", report.audit.Unresolved[0].Name)
	assert.Equal(t, 1, metrics.summary.Unresolved)
	assert.Equal(t, req.MetricsFile, metrics.path)
}

func TestAuditStopsBeforeListingOnFatalErrors(t *testing.T) {
	unsupported := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("unsupported distribution: arch")
	malformed := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("invalid policy document")
	tests := []struct {
		name     string
		platform fakePlatform
		policy   fakePolicy
		wantErr  error
	}{
		{
			name:     "unsupported platform",
			platform: fakePlatform{err: unsupported},
			wantErr:  unsupported,
		},
		{
			name:     "policy load failure",
			platform: fakePlatform{platform: types.Platform{Distribution: types.DistributionDebian}},
			policy:   fakePolicy{err: malformed},
			wantErr:  malformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := &fakeListing{}
			service, _, _ := newTestService(types.Platform{}, listing, tt.policy)
			service.Platform = tt.platform
			_, err := service.Audit(t.Context(), auditRequest())
			require.Error(t, err)
			assert.Zero(t, listing.calls)
			assert.Equal(t, errbuilder.CodeOf(tt.wantErr), errbuilder.CodeOf(err))
		})
	}
}

func TestAuditRequiresPolicyPaths(t *testing.T) {
	service, _, _ := newTestService(types.Platform{Distribution: types.DistributionDebian}, &fakeListing{}, fakePolicy{})
	_, err := service.Audit(t.Context(), AuditRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestAuditHostnameFailureIsNotFatal(t *testing.T) {
	service, report, _ := newTestService(types.Platform{Name: "ubuntu", Distribution: types.DistributionDebian}, &fakeListing{}, fakePolicy{})
	service.Hostname = func() (string, error) { return "", errors.New("no hostname") }
	_, err := service.Audit(t.Context(), auditRequest())
	require.NoError(t, err)
	assert.Equal(t, "unknown", report.audit.Run.Hostname)
}

func TestBuildReportRowsOrdering(t *testing.T) {
	residual := types.PackageDetails{
		"zsh":   {Version: "5.8", Repository: "r"},
		"nginx": {Version: "1.19", Repository: "r"},
		"curl":  {Version: "7.68.0", Repository: "r"},
	}
	tables := types.NewPolicyTables(types.UpstreamPolicy{}, types.ApprovalsPolicy{ApprovedForks: map[string]types.ApprovedFork{
		"zsh":   {Category: "a-shell"},
		"nginx": {Category: "web"},
	}})
	policy := policies.NewForkPolicy(tables)

	byName := buildReportRows(residual, policy, types.ReportOptions{Category: true})
	assert.Equal(t, []string{"curl", "nginx", "zsh"}, rowPackages(byName))

	byCategory := buildReportRows(residual, policy, types.ReportOptions{Category: true, SortByCategory: true})
	assert.Equal(t, []string{"curl", "zsh", "nginx"}, rowPackages(byCategory))
	assert.Equal(t, types.UnknownCategory, byCategory[0].Category)
}

func rowPackages(rows []types.ReportRow) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Package)
	}
	return names
}

func TestRepos(t *testing.T) {
	listing := &fakeListing{repos: "deb http://archive.example/ubuntu/ focal main\n"}
	service, report, _ := newTestService(types.Platform{Distribution: types.DistributionDebian}, listing, fakePolicy{})
	result, err := service.Repos(t.Context())
	require.NoError(t, err)
	assert.Equal(t, types.RepositoryMapping{"focal": "http://archive.example/ubuntu/"}, result.Mapping)
	assert.Equal(t, result.Mapping, report.mapping)
}

func TestValidatePolicy(t *testing.T) {
	service, _, _ := newTestService(types.Platform{}, &fakeListing{}, fakePolicy{
		upstream: types.UpstreamPolicy{UpstreamRepos: []string{"a", "b"}},
		approvals: types.ApprovalsPolicy{ApprovedForks: map[string]types.ApprovedFork{
			"nginx": {},
		}},
	})
	result, err := service.ValidatePolicy(ValidatePolicyRequest{
		UpstreamReposPath: "config.yaml",
		ApprovalsPath:     "approvals.yaml",
		Distribution:      types.DistributionDebian,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.UpstreamRepos)
	assert.Equal(t, 1, result.ApprovedForks)
	require.Len(t, result.Warnings, 1)
}

func TestValidatePolicyLintDistribution(t *testing.T) {
	policy := fakePolicy{
		upstream: types.UpstreamPolicy{UpstreamRepos: []string{"a"}},
		approvals: types.ApprovalsPolicy{ApprovedForks: map[string]types.ApprovedFork{
			"curl": {Versions: types.ForkVersions{"7.68.0-1"}},
		}},
	}
	tests := []struct {
		name         string
		requested    types.Distribution
		platform     fakePlatform
		wantDist     types.Distribution
		wantWarnings int
	}{
		{
			name:         "detected from host",
			platform:     fakePlatform{platform: types.Platform{Distribution: types.DistributionDebian}},
			wantDist:     types.DistributionDebian,
			wantWarnings: 1,
		},
		{
			name:         "explicit overrides host",
			requested:    types.DistributionRedHat,
			platform:     fakePlatform{platform: types.Platform{Distribution: types.DistributionDebian}},
			wantDist:     types.DistributionRedHat,
			wantWarnings: 0,
		},
		{
			name:         "detection failure skips lint",
			platform:     fakePlatform{err: errors.New("not linux")},
			wantDist:     types.DistributionUnknown,
			wantWarnings: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newTestService(types.Platform{}, &fakeListing{}, policy)
			service.Platform = tt.platform
			result, err := service.ValidatePolicy(ValidatePolicyRequest{
				UpstreamReposPath: "config.yaml",
				ApprovalsPath:     "approvals.yaml",
				Distribution:      tt.requested,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantDist, result.Distribution)
			assert.Len(t, result.Warnings, tt.wantWarnings)
		})
	}
}

func TestValidatePolicyRejectsUnsupportedDistribution(t *testing.T) {
	service, _, _ := newTestService(types.Platform{}, &fakeListing{}, fakePolicy{})
	_, err := service.ValidatePolicy(ValidatePolicyRequest{
		UpstreamReposPath: "config.yaml",
		ApprovalsPath:     "approvals.yaml",
		Distribution:      types.Distribution("solaris"),
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
