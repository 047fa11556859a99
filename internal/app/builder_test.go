package app_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hostbuild/internal/app"
	"go.trai.ch/hostbuild/internal/core/ports/mocks"
	_ "go.trai.ch/hostbuild/internal/wiring" // Register providers
	"go.uber.org/mock/gomock"
)

func TestNewComponents(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	a := &app.App{}

	components := app.NewComponents(a, logger)

	require.Same(t, a, components.App)
	require.Equal(t, logger, components.Logger)
}

func TestComponentsNode_ResolvesGraph(t *testing.T) {
	t.Chdir(t.TempDir())

	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)

	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
