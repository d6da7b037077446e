package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

func TestActivityLog_List_FiltraPorModeloMasRecientePrimero(t *testing.T) {
	s := newAccountStore()
	s.logs = []entity.ActivityLog{
		{ID: "1", ActorID: adminID, Action: entity.ActionCreated, Model: entity.ModelUser, ModelID: userID, CreatedAt: fixedNow},
		{ID: "2", ActorID: userID, Action: entity.ActionCreated, Model: entity.ModelInvoice, ModelID: "inv-1", CreatedAt: fixedNow},
		{ID: "3", ActorID: adminID, Action: entity.ActionDeleted, Model: entity.ModelUser, ModelID: userID, CreatedAt: fixedNow},
	}
	uc := usecase.NewActivityLogUseCase(&logRepo{s})

	out, err := uc.List(context.Background(), dto.ActivityLogQuery{Model: entity.ModelUser})

	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "3", out.Items[0].ID)
	assert.Equal(t, "1", out.Items[1].ID)
	assert.NotNil(t, out.Items[0].Changes)
	assert.Equal(t, 2, out.Page.Total)
	assert.Equal(t, 20, out.Page.Limit)
}
