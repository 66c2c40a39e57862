package testutil

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtures(t *testing.T) {
	db := NewSQLiteDB(t)
	SeedCatalog(t, db)

	u := CreateUser(t, db, "budi", WithCoins(25000), WithPayout(account.PayoutDana, "081234567890", "081234567890"))
	got := ReloadUser(t, db, u.ID)
	assert.Equal(t, int64(25000), got.Ledger.TotalCoins)
	assert.True(t, got.Profile.Completed)

	count, err := persistence.NewGormRecyclableRepository(db).Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
}

func TestHTTPHelpers(t *testing.T) {
	engine := gin.New()
	engine.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"name": "plastik"}})
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "missing"}})
	})

	w := Do(t, engine, Request{Path: "/ok"})
	AssertSuccessResponse(t, w, http.StatusOK)
	data := DataAs[map[string]string](t, w)
	assert.Equal(t, "plastik", data["name"])

	w = Do(t, engine, Request{Path: "/fail"})
	AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
}
