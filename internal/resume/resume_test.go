package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/types"
)

func completeResume() types.ResumeData {
	return types.ResumeData{
		Personal: types.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+44 20 0000 0000",
			Location:  "London",
		},
		Experience: []types.Experience{
			{ID: "e1", Company: "Analytical Engines", Position: "Programmer", StartDate: "1842", Current: true},
		},
		Education:       []types.Education{{ID: "ed1", Institution: "Home", Degree: "Mathematics"}},
		TechnicalSkills: []types.Skill{{ID: "s1", Name: "Algorithms", Level: 5}},
	}
}

func fields(ws []DataIncompletenessWarning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Field)
	}
	return out
}

func TestValidate_Complete(t *testing.T) {
	r := Validate(completeResume())
	assert.True(t, r.OK())
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestValidate_Errors(t *testing.T) {
	data := completeResume()
	data.Personal.FirstName = " "
	data.Personal.LastName = ""
	data.Personal.Email = "not-an-email"

	r := Validate(data)
	assert.False(t, r.OK())
	assert.ElementsMatch(t, []string{"personal.firstName", "personal.lastName", "personal.email"}, fields(r.Errors))
}

func TestValidate_Warnings(t *testing.T) {
	data := types.ResumeData{
		Personal: types.PersonalInfo{FirstName: "A", LastName: "B"},
	}

	r := Validate(data)
	assert.True(t, r.OK())
	assert.ElementsMatch(t, []string{
		"personal.email", "personal.phone", "personal.location",
		"experience", "education", "skills",
	}, fields(r.Warnings))

	data.Experience = []types.Experience{{Position: "Engineer"}}
	r = Validate(data)
	assert.Contains(t, fields(r.Warnings), "experience[0].startDate")
	assert.Contains(t, fields(r.Warnings), "experience[0].endDate")
	assert.NotContains(t, fields(r.Warnings), "experience")
}

func TestValidateJSON(t *testing.T) {
	errs, err := ValidateJSON([]byte(`{"personal":{"firstName":"A","lastName":"B"}}`))
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = ValidateJSON([]byte(`{"personal":{"firstName":"A"}}`))
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Equal(t, "personal", errs[0].Field)

	_, err = ValidateJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"personal": {"firstName": "Ada", "lastName": "Lovelace"},
		"experience": [{"company": "Analytical Engines", "achievements": ["Note G"]}]
	}`), 0o644))

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", data.Personal.FullName())
	require.Len(t, data.Experience, 1)
	assert.Equal(t, []string{"Note G"}, data.Experience[0].Achievements)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"personal":`), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestEnsureIDs(t *testing.T) {
	in := types.ResumeData{
		Experience: []types.Experience{{ID: "keep", Company: "A"}, {Company: "B", Achievements: []string{"x"}}},
		Projects:   []types.Project{{Name: "P"}},
		CustomSections: []types.CustomSection{
			{Title: "Talks", Items: []types.CustomItem{{Title: "GopherCon"}}},
		},
	}

	out := EnsureIDs(in)

	assert.Equal(t, "keep", out.Experience[0].ID)
	_, err := uuid.Parse(out.Experience[1].ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Projects[0].ID)
	assert.NotEmpty(t, out.CustomSections[0].ID)
	assert.NotEmpty(t, out.CustomSections[0].Items[0].ID)
	assert.Nil(t, out.Education)

	assert.Empty(t, in.Experience[1].ID)
	assert.Empty(t, in.Projects[0].ID)
	assert.Empty(t, in.CustomSections[0].Items[0].ID)

	out.Experience[1].Achievements[0] = "changed"
	assert.Equal(t, "x", in.Experience[1].Achievements[0])
}
