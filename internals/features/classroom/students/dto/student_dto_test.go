package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	model "kelasku_backend/internals/features/classroom/students/model"
)

func TestCreateReq_NormalizeAndValidate(t *testing.T) {
	num := "  A-12 "
	r := StudentCreateReq{
		StudentName:   "  Budi  ",
		StudentNumber: &num,
		StudentTags:   []string{" Rajin", "rajin", "", "AKTIF"},
	}
	r.Normalize()

	assert.Equal(t, "Budi", r.StudentName)
	assert.Equal(t, "A-12", *r.StudentNumber)
	assert.Equal(t, []string{"rajin", "aktif"}, r.StudentTags)
	assert.NoError(t, r.Validate())
}

func TestCreateReq_EmptyNameRejected(t *testing.T) {
	r := StudentCreateReq{StudentName: "   "}
	r.Normalize()
	assert.Error(t, r.Validate())
}

func TestCreateReq_EmptyNumberBecomesNil(t *testing.T) {
	num := "   "
	r := StudentCreateReq{StudentName: "Budi", StudentNumber: &num}
	r.Normalize()
	assert.Nil(t, r.StudentNumber)
}

func TestCreateReq_ToModel(t *testing.T) {
	ownerID := uuid.New()
	r := StudentCreateReq{StudentName: "Budi", StudentTags: []string{"rajin"}}
	m := r.ToModel(ownerID)

	assert.Equal(t, ownerID, m.StudentOwnerUserID)
	assert.True(t, m.StudentIsActive)
	assert.Equal(t, 0, m.StudentPoints)
}

func TestPatchReq_AppliesOnlySetFields(t *testing.T) {
	num := "B-7"
	m := &model.StudentModel{
		StudentName:   "Budi",
		StudentNumber: &num,
	}

	r := StudentPatchReq{
		StudentName: &PatchField[string]{Set: true, Value: "Siti"},
	}
	r.Normalize()
	assert.NoError(t, r.Validate())
	r.Apply(m)

	assert.Equal(t, "Siti", m.StudentName)
	assert.Equal(t, "B-7", *m.StudentNumber, "field yang tidak di-set tidak berubah")
}

func TestPatchReq_ClearNumber(t *testing.T) {
	num := "B-7"
	m := &model.StudentModel{StudentName: "Budi", StudentNumber: &num}

	r := StudentPatchReq{
		StudentNumber: &PatchField[*string]{Set: true, Value: nil},
	}
	r.Apply(m)
	assert.Nil(t, m.StudentNumber)
}

func TestPatchReq_EmptyNameRejected(t *testing.T) {
	r := StudentPatchReq{
		StudentName: &PatchField[string]{Set: true, Value: "   "},
	}
	r.Normalize()
	assert.Error(t, r.Validate())
}
