package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/buildory/phodo-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validVersion() *models.AppVersion {
	return &models.AppVersion{
		Platform:            models.PlatformIOS,
		LatestVersion:       "2.4.0",
		MinSupportedVersion: "2.0.0",
		StoreURL:            "https://apps.example.com/phodo",
		MinNativeSupported:  "2.0.0",
	}
}

func TestAppVersionService_Create_Success(t *testing.T) {
	repo := &MockAppVersionRepository{
		CreateFunc: func(ctx context.Context, version *models.AppVersion) (*models.AppVersion, error) {
			created := *version
			created.ID = "av-1"
			return &created, nil
		},
	}
	svc := NewAppVersionService(repo, slog.Default())

	created, err := svc.Create(context.Background(), validVersion())

	require.NoError(t, err)
	assert.Equal(t, "av-1", created.ID)
	assert.Equal(t, 1, repo.Calls)
}

func TestAppVersionService_Create_RequiredFieldsCheckedBeforeRepo(t *testing.T) {
	cases := []struct {
		field string
		wreck func(v *models.AppVersion)
	}{
		{"platform", func(v *models.AppVersion) { v.Platform = "" }},
		{"platform", func(v *models.AppVersion) { v.Platform = "windows" }},
		{"latest_version", func(v *models.AppVersion) { v.LatestVersion = "" }},
		{"min_supported_version", func(v *models.AppVersion) { v.MinSupportedVersion = "" }},
		{"store_url", func(v *models.AppVersion) { v.StoreURL = "" }},
		{"min_native_supported", func(v *models.AppVersion) { v.MinNativeSupported = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			repo := &MockAppVersionRepository{}
			svc := NewAppVersionService(repo, slog.Default())

			version := validVersion()
			tc.wreck(version)

			created, err := svc.Create(context.Background(), version)

			require.Error(t, err)
			assert.Nil(t, created)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Zero(t, repo.Calls, "validation failure must not cost a repository round trip")
		})
	}
}

func TestAppVersionService_Update_PartialAppliesOverStored(t *testing.T) {
	stored := validVersion()
	stored.ID = "av-1"
	stored.ForceUpdate = false

	var written *models.AppVersion
	repo := &MockAppVersionRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.AppVersion, error) {
			copy := *stored
			return &copy, nil
		},
		UpdateFunc: func(ctx context.Context, id string, version *models.AppVersion) (*models.AppVersion, error) {
			written = version
			return version, nil
		},
	}
	svc := NewAppVersionService(repo, slog.Default())

	latest := "2.5.0"
	force := true
	updated, err := svc.Update(context.Background(), "av-1", AppVersionUpdateParams{
		LatestVersion: &latest,
		ForceUpdate:   &force,
	})

	require.NoError(t, err)
	assert.Equal(t, "2.5.0", updated.LatestVersion)
	assert.True(t, updated.ForceUpdate)

	// Fields absent from the params keep their stored values.
	assert.Equal(t, stored.MinSupportedVersion, written.MinSupportedVersion)
	assert.Equal(t, stored.StoreURL, written.StoreURL)
	assert.Equal(t, stored.Platform, written.Platform)
}

func TestAppVersionService_Update_UnknownPlatformRejected(t *testing.T) {
	repo := &MockAppVersionRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.AppVersion, error) {
			return validVersion(), nil
		},
	}
	svc := NewAppVersionService(repo, slog.Default())

	platform := "symbian"
	updated, err := svc.Update(context.Background(), "av-1", AppVersionUpdateParams{Platform: &platform})

	require.Error(t, err)
	assert.Nil(t, updated)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "platform", ve.Field)
	assert.Equal(t, 1, repo.Calls, "only the lookup ran, never the write")
}

func TestAppVersionService_Update_NotFound(t *testing.T) {
	repo := &MockAppVersionRepository{}
	svc := NewAppVersionService(repo, slog.Default())

	latest := "9.9.9"
	updated, err := svc.Update(context.Background(), "av-missing", AppVersionUpdateParams{LatestVersion: &latest})

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, updated)
}

func TestAppVersionService_Delete_NotFound(t *testing.T) {
	repo := &MockAppVersionRepository{}
	svc := NewAppVersionService(repo, slog.Default())

	err := svc.Delete(context.Background(), "av-missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAppVersionService_Delete_Success(t *testing.T) {
	repo := &MockAppVersionRepository{
		DeleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	svc := NewAppVersionService(repo, slog.Default())

	err := svc.Delete(context.Background(), "av-1")

	assert.NoError(t, err)
	assert.Equal(t, 1, repo.Calls)
}

func TestAppVersionService_List_PropagatesError(t *testing.T) {
	repo := &MockAppVersionRepository{
		ListFunc: func(ctx context.Context, platform string) ([]*models.AppVersion, error) {
			return nil, &models.QueryError{Collection: "app_versions", Err: assert.AnError}
		},
	}
	svc := NewAppVersionService(repo, slog.Default())

	versions, err := svc.List(context.Background(), "ios")

	assert.ErrorIs(t, err, models.ErrQueryFailed)
	assert.Nil(t, versions)
}
