package rbmarshal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_ClassKindResolution(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterUserMarshal("Point")
	reg.RegisterUserDef("Time")
	reg.RegisterObject("Config")

	require.Equal(t, "UserMarshal", reg.classKind("Point"))
	require.Equal(t, "UserDef", reg.classKind("Time"))
	require.Equal(t, "Object", reg.classKind("Config"))
	require.Equal(t, "", reg.classKind("Unregistered"))
}

func TestRegistry_NilIsPermissive(t *testing.T) {
	var reg *Registry
	require.Equal(t, "", reg.classKind("Anything"))
	require.False(t, reg.hasAnyEntries())
}

func TestRegistry_HasAnyEntries(t *testing.T) {
	reg := NewRegistry()
	require.False(t, reg.hasAnyEntries())
	reg.RegisterObject("Foo")
	require.True(t, reg.hasAnyEntries())
}

func TestRegistry_MismatchAcrossKinds(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterObject("Config")

	require.Equal(t, "Object", reg.classKind("Config"))
	require.NotEqual(t, "UserDef", reg.classKind("Config"))
}
