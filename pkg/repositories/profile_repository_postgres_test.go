//go:build integration

package repositories

import (
	"testing"

	"github.com/ekaya-inc/bizget-engine/pkg/testhelpers"
)

func TestPostgresProfileRepository(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)

	runProfileRepositorySuite(t, func(t *testing.T) ProfileRepository {
		testDB.Truncate(t, "newsletters", "business_profiles")
		return NewPostgresProfileRepository(testDB.DB)
	})
}
