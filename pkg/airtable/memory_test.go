package airtable

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.SetClock(func() time.Time { return time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC) })

	created, err := m.Create(ctx, "app", "Students", Fields{"Email": "a@b.com", "Name": "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 2024, created.CreatedTime.Year())

	list, err := m.List(ctx, "app", "Students", Query{Filter: EqFold("Email", "A@B.COM")})
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := m.Update(ctx, "app", "Students", created.ID, Fields{"Name": "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Fields.String("Name"))
	assert.Equal(t, "a@b.com", updated.Fields.String("Email"))

	res, err := m.Delete(ctx, "app", "Students", created.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	_, err = m.Delete(ctx, "app", "Students", created.ID)
	assert.True(t, IsNotFound(err))
}

func TestMemoryStoreProjectionAndLimit(t *testing.T) {
	m := NewMemoryStore()
	m.Seed("app", "T", Fields{"A": "1", "B": "x"}, Fields{"A": "2", "B": "y"})

	list, err := m.List(context.Background(), "app", "T", Query{Fields: []string{"A"}, MaxRecords: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, Fields{"A": "1"}, list[0].Fields)
}

func TestMemoryStoreFailureInjection(t *testing.T) {
	m := NewMemoryStore()
	boom := errors.New("boom")
	m.Fail("app", "T", boom)

	_, err := m.List(context.Background(), "app", "T", Query{})
	assert.ErrorIs(t, err, boom)

	m.Fail("app", "T", nil)
	_, err = m.List(context.Background(), "app", "T", Query{})
	assert.NoError(t, err)
}

func TestFieldsAccessors(t *testing.T) {
	f := Fields{"n": "12.5", "arr": []any{float64(3)}, "b": true}
	assert.Equal(t, 12.5, f.Float("n"))
	assert.Equal(t, float64(3), f.Float("arr"))
	assert.Equal(t, "3", f.String("arr"))
	assert.Equal(t, "true", f.String("b"))
	assert.False(t, f.Has("missing"))
}
