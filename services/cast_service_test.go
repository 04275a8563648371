package services

import (
	"context"
	"testing"

	"mediacms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCastNames(t *testing.T) {
	assert.Equal(t, []string{"张三", "李四", "王五"}, SplitCastNames("张三，李四, 王五"))
	assert.Equal(t, []string{"Tom Hanks"}, SplitCastNames(" Tom Hanks ,, "))
	assert.Empty(t, SplitCastNames(""))
}

func TestCast_ProcessCast_FallbackDescription(t *testing.T) {
	svc, db := newTestServices(t, Deps{Describer: failingDescriber{}})
	ctx := context.Background()

	people, err := svc.Cast.ProcessCast(ctx, "张三，李四", RoleActor)
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "张三", people[0].Name)
	assert.Equal(t, "张三 is a well-known actor.", people[0].Description)

	var count int64
	require.NoError(t, db.Model(&models.Actor{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// 同名人员复用
	again, err := svc.Cast.ProcessCast(ctx, "张三", RoleActor)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, people[0].ID, again[0].ID)

	// 演员和导演分表
	directors, err := svc.Cast.ProcessCast(ctx, "张三", RoleDirector)
	require.NoError(t, err)
	assert.Equal(t, "张三 is a well-known director.", directors[0].Description)

	_, err = svc.Cast.ProcessCast(ctx, "x", "writer")
	_, ok := AsValidation(err)
	assert.True(t, ok)
}

func TestCast_DescriberUsedOncePerPerson(t *testing.T) {
	describer := &staticDescriber{}
	svc, _ := newTestServices(t, Deps{Describer: describer})
	ctx := context.Background()

	people, err := svc.Cast.ProcessCast(ctx, "A,B", RoleDirector)
	require.NoError(t, err)
	assert.Equal(t, "A/director", people[0].Description)

	_, err = svc.Cast.ProcessCast(ctx, "A,B", RoleDirector)
	require.NoError(t, err)
	assert.Equal(t, 2, describer.calls)
}

func TestCast_AttachCast(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()
	video := mustVideo(t, svc, "v")

	_, err := svc.Cast.AttachCast(ctx, video.ID, []string{"甲", "乙"}, RoleActor)
	require.NoError(t, err)
	_, err = svc.Cast.AttachCast(ctx, video.ID, []string{"丙"}, RoleActor)
	require.NoError(t, err)

	_, err = svc.Cast.AttachCast(ctx, video.ID, []string{"甲"}, RoleActor)
	assert.True(t, IsConflict(err))

	_, err = svc.Cast.AttachCast(ctx, 404, []string{"甲"}, RoleActor)
	assert.True(t, IsNotFound(err))

	actors, directors, err := svc.Cast.ListCredits(ctx, video.ID)
	require.NoError(t, err)
	assert.Empty(t, directors)
	require.Len(t, actors, 3)
	assert.Equal(t, "甲", actors[0].Name)
	assert.True(t, actors[0].IsMain)
	assert.Equal(t, "丙", actors[2].Name)
	assert.Equal(t, 2, actors[2].Order)
	assert.False(t, actors[2].IsMain)
}
