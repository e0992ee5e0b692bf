package lecturers

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/claimflow/claimflow/internal/shared"
)

type memoryLecturerRepo struct {
	lecturers map[int64]Lecturer
	claims    map[int64]int
	nextID    int64
}

func newMemoryLecturerRepo() *memoryLecturerRepo {
	return &memoryLecturerRepo{
		lecturers: make(map[int64]Lecturer),
		claims:    make(map[int64]int),
	}
}

func (r *memoryLecturerRepo) List(ctx context.Context) ([]Lecturer, error) {
	out := make([]Lecturer, 0, len(r.lecturers))
	for _, l := range r.lecturers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *memoryLecturerRepo) Get(ctx context.Context, id int64) (Lecturer, error) {
	l, ok := r.lecturers[id]
	if !ok {
		return Lecturer{}, shared.ErrNotFound
	}
	return l, nil
}

func (r *memoryLecturerRepo) Create(ctx context.Context, lecturer Lecturer) (Lecturer, error) {
	r.nextID++
	lecturer.ID = r.nextID
	lecturer.CreatedAt = time.Now()
	lecturer.UpdatedAt = lecturer.CreatedAt
	r.lecturers[lecturer.ID] = lecturer
	return lecturer, nil
}

func (r *memoryLecturerRepo) Update(ctx context.Context, lecturer Lecturer) error {
	existing, ok := r.lecturers[lecturer.ID]
	if !ok {
		return shared.ErrNotFound
	}
	lecturer.CreatedAt = existing.CreatedAt
	lecturer.UpdatedAt = time.Now()
	r.lecturers[lecturer.ID] = lecturer
	return nil
}

func (r *memoryLecturerRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.lecturers[id]; !ok {
		return shared.ErrNotFound
	}
	if r.claims[id] > 0 {
		return ErrHasClaims
	}
	delete(r.lecturers, id)
	return nil
}

func validLecturer() Lecturer {
	return Lecturer{
		FullName:          "Thandi Mokoena",
		Email:             "thandi.mokoena@example.ac.za",
		EmployeeNumber:    "EMP-1042",
		Department:        "Information Systems",
		DefaultHourlyRate: decimal.RequireFromString("450"),
		IsActive:          true,
	}
}

func TestCreateLecturerRequiresName(t *testing.T) {
	svc := NewService(newMemoryLecturerRepo())

	lecturer := validLecturer()
	lecturer.FullName = "   "
	_, err := svc.Create(context.Background(), lecturer)
	require.ErrorContains(t, err, "name is required")
}

func TestCreateLecturerRejectsNegativeRate(t *testing.T) {
	svc := NewService(newMemoryLecturerRepo())

	lecturer := validLecturer()
	lecturer.DefaultHourlyRate = decimal.RequireFromString("-1")
	_, err := svc.Create(context.Background(), lecturer)
	require.ErrorContains(t, err, "cannot be negative")
}

func TestListReturnsAlphabeticalOrder(t *testing.T) {
	repo := newMemoryLecturerRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, name := range []string{"Zanele Dube", "Amir Patel", "Lerato Nkosi"} {
		lecturer := validLecturer()
		lecturer.FullName = name
		lecturer.Email = name + "@example.ac.za"
		_, err := svc.Create(ctx, lecturer)
		require.NoError(t, err)
	}

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, "Amir Patel", listed[0].FullName)
	require.Equal(t, "Lerato Nkosi", listed[1].FullName)
	require.Equal(t, "Zanele Dube", listed[2].FullName)
}

func TestDeleteLecturerWithClaimsFails(t *testing.T) {
	repo := newMemoryLecturerRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validLecturer())
	require.NoError(t, err)

	repo.claims[created.ID] = 2
	err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, ErrHasClaims)

	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
}

func TestDeleteLecturerWithoutClaims(t *testing.T) {
	repo := newMemoryLecturerRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validLecturer())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateMissingLecturer(t *testing.T) {
	svc := NewService(newMemoryLecturerRepo())

	lecturer := validLecturer()
	lecturer.ID = 99
	err := svc.Update(context.Background(), lecturer)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
