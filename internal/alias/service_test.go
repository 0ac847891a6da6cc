package alias_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bldriq/internal/alias"
	"github.com/MrJamesThe3rd/bldriq/internal/alias/store"
	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
)

const carpet = "Carpet Tile"

func TestService_Learn(t *testing.T) {
	type args struct {
		pattern string
		scope   string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(r *alias.MockRepository, s *alias.MockScopes)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "StoresCatalogName",
			args: args{pattern: "  carpet squares ", scope: "carpet tile"},
			setupMock: func(r *alias.MockRepository, s *alias.MockScopes) {
				s.EXPECT().Lookup("carpet tile").Return(catalog.ScopeOfWork{Name: carpet}, true)
				r.EXPECT().Save(gomock.Any(), "carpet squares", carpet).Return(nil)
			},
		},
		{
			name: "UnknownScope",
			args: args{pattern: "neon sign", scope: "Signage"},
			setupMock: func(_ *alias.MockRepository, s *alias.MockScopes) {
				s.EXPECT().Lookup("Signage").Return(catalog.ScopeOfWork{}, false)
			},
			wantErr: alias.ErrUnknownScope,
		},
		{
			name:    "EmptyPattern",
			args:    args{pattern: "   ", scope: carpet},
			wantErr: alias.ErrEmptyPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := alias.NewMockRepository(ctrl)
			scopes := alias.NewMockScopes(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, scopes)
			}

			err := alias.NewService(repo, scopes).Learn(context.Background(), tt.args.pattern, tt.args.scope)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Resolve(t *testing.T) {
	type testCase struct {
		name      string
		raw       string
		setupMock func(r *alias.MockRepository, s *alias.MockScopes)
		want      string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "CatalogName",
			raw:  "Low Voltage Allowance",
			setupMock: func(_ *alias.MockRepository, s *alias.MockScopes) {
				s.EXPECT().Lookup("Low Voltage Allowance").
					Return(catalog.ScopeOfWork{Name: "Low Voltage Allowance space under 2500 sqft"}, true)
			},
			want: "Low Voltage Allowance space under 2500 sqft",
		},
		{
			name: "Learned",
			raw:  "Lobby carpet squares",
			setupMock: func(r *alias.MockRepository, s *alias.MockScopes) {
				s.EXPECT().Lookup(gomock.Any()).Return(catalog.ScopeOfWork{}, false)
				r.EXPECT().FindMatch(gomock.Any(), "Lobby carpet squares").Return(carpet, nil)
			},
			want: carpet,
		},
		{
			name: "Unrecognized",
			raw:  "Neon sign",
			setupMock: func(r *alias.MockRepository, s *alias.MockScopes) {
				s.EXPECT().Lookup(gomock.Any()).Return(catalog.ScopeOfWork{}, false)
				r.EXPECT().FindMatch(gomock.Any(), gomock.Any()).Return("", nil)
			},
			want: "Neon sign",
		},
		{
			name: "RepoError",
			raw:  "Neon sign",
			setupMock: func(r *alias.MockRepository, s *alias.MockScopes) {
				s.EXPECT().Lookup(gomock.Any()).Return(catalog.ScopeOfWork{}, false)
				r.EXPECT().FindMatch(gomock.Any(), gomock.Any()).Return("", errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := alias.NewMockRepository(ctrl)
			scopes := alias.NewMockScopes(ctrl)
			tt.setupMock(repo, scopes)

			got, err := alias.NewService(repo, scopes).Resolve(context.Background(), tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemory_FindMatch(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	require.NoError(t, m.Save(ctx, "carpet", carpet))
	require.NoError(t, m.Save(ctx, "Carpet Base", "Rubber Base"))
	require.NoError(t, m.Save(ctx, "paint", "Paint Walls"))

	tests := map[string]string{
		"New CARPET in lobby":       carpet,
		"replace carpet base trims": "Rubber Base",
		"Paint the corridor":        "Paint Walls",
		"Ceiling tiles":             "",
	}

	for raw, want := range tests {
		got, err := m.FindMatch(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}

	require.NoError(t, m.Save(ctx, "CARPET", "Broadloom Carpet"))

	got, err := m.FindMatch(ctx, "carpet")
	require.NoError(t, err)
	assert.Equal(t, "Broadloom Carpet", got, "relearning a pattern replaces it")
}

func TestService_WithDefaultCatalog(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	svc := alias.NewService(store.NewMemory(), c)
	ctx := context.Background()

	require.NoError(t, svc.Learn(ctx, "carpet squares", carpet))
	assert.ErrorIs(t, svc.Learn(ctx, "neon", "Neon Signage"), alias.ErrUnknownScope)

	got, err := svc.Resolve(ctx, "Tenant carpet squares, suite 200")
	require.NoError(t, err)
	assert.Equal(t, carpet, got)

	got, err = svc.Suggest(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
