package controllers_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduapp/backend/models"
)

func submitPath(assessmentID uint) string {
	return fmt.Sprintf("/api/assessments/%d/submit", assessmentID)
}

func TestSubmitAssessmentScoring(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, group := env.createSubjectAndGroup(t)
	teacher, _ := env.createUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	_, studentToken := env.createUser(t, "Student", "student@example.com", models.RoleStudent)
	assessment, questions := env.createAssessment(t, subject, group, teacher.ID, true)

	// Both correct: 3 of 3 marks.
	status, body := env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].CorrectID},
			{"question_id": questions[1].ID, "selected_option_id": questions[1].CorrectID},
		},
	})
	require.Equal(t, 200, status)
	assert.Equal(t, float64(3), body["score"])
	assert.Equal(t, float64(3), body["totalMarks"])
	assert.Equal(t, float64(100), body["percentage"])
}

func TestSubmitAssessmentPartialAndWrong(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, group := env.createSubjectAndGroup(t)
	teacher, _ := env.createUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	_, studentToken := env.createUser(t, "Student", "student@example.com", models.RoleStudent)
	assessment, questions := env.createAssessment(t, subject, group, teacher.ID, true)

	// Only the 2-mark question answered correctly: 2 of 3, rounded 67%.
	status, body := env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].CorrectID},
			{"question_id": questions[1].ID, "selected_option_id": questions[1].WrongID},
		},
	})
	require.Equal(t, 200, status)
	assert.Equal(t, float64(2), body["score"])
	assert.Equal(t, float64(3), body["totalMarks"])
	assert.Equal(t, float64(67), body["percentage"])
}

func TestSubmitAssessmentIgnoresForeignQuestions(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, group := env.createSubjectAndGroup(t)
	teacher, _ := env.createUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	_, studentToken := env.createUser(t, "Student", "student@example.com", models.RoleStudent)
	assessment, questions := env.createAssessment(t, subject, group, teacher.ID, true)
	_, otherQuestions := env.createAssessment(t, subject, group, teacher.ID, true)

	// Answers for another assessment's question contribute nothing,
	// to the score or the total.
	status, body := env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].CorrectID},
			{"question_id": questions[1].ID, "selected_option_id": questions[1].CorrectID},
			{"question_id": otherQuestions[0].ID, "selected_option_id": otherQuestions[0].CorrectID},
			{"question_id": 98765, "selected_option_id": 1},
		},
	})
	require.Equal(t, 200, status)
	assert.Equal(t, float64(3), body["score"])
	assert.Equal(t, float64(3), body["totalMarks"])
	assert.Equal(t, float64(100), body["percentage"])
}

func TestSubmitAssessmentRejectsEmptyAndUnapproved(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, group := env.createSubjectAndGroup(t)
	teacher, _ := env.createUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	_, studentToken := env.createUser(t, "Student", "student@example.com", models.RoleStudent)
	approved, questions := env.createAssessment(t, subject, group, teacher.ID, true)
	pending, pendingQuestions := env.createAssessment(t, subject, group, teacher.ID, false)

	status, body := env.request(t, "POST", submitPath(approved.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{},
	})
	assert.Equal(t, 400, status)
	assert.NotEmpty(t, body["error"])

	// Unapproved assessments look like they do not exist.
	status, body = env.request(t, "POST", submitPath(pending.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": pendingQuestions[0].ID, "selected_option_id": pendingQuestions[0].CorrectID},
		},
	})
	assert.Equal(t, 404, status)
	assert.Equal(t, "Assessment not found or not approved", body["error"])

	status, _ = env.request(t, "POST", submitPath(99999), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].CorrectID},
		},
	})
	assert.Equal(t, 404, status)
}

func TestResubmissionReplacesRecord(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, group := env.createSubjectAndGroup(t)
	teacher, _ := env.createUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student, studentToken := env.createUser(t, "Student", "student@example.com", models.RoleStudent)
	assessment, questions := env.createAssessment(t, subject, group, teacher.ID, true)

	status, body := env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].WrongID},
			{"question_id": questions[1].ID, "selected_option_id": questions[1].WrongID},
		},
	})
	require.Equal(t, 200, status)
	assert.Equal(t, float64(0), body["score"])

	status, body = env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].CorrectID},
			{"question_id": questions[1].ID, "selected_option_id": questions[1].CorrectID},
		},
	})
	require.Equal(t, 200, status)
	assert.Equal(t, float64(3), body["score"])

	var count int64
	env.db.Model(&models.Submission{}).
		Where("student_id = ? AND assessment_id = ?", student.ID, assessment.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)

	var submission models.Submission
	require.NoError(t, env.db.Where("student_id = ? AND assessment_id = ?", student.ID, assessment.ID).
		First(&submission).Error)
	assert.Equal(t, 3, submission.Score)
	assert.Nil(t, submission.GradedAt)
}

func TestSubmitAssessmentZeroTotalMarks(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, group := env.createSubjectAndGroup(t)
	teacher, _ := env.createUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	_, studentToken := env.createUser(t, "Student", "student@example.com", models.RoleStudent)

	assessment := models.Assessment{
		Title:     "Empty quiz",
		SubjectID: subject.ID,
		GroupID:   group.ID,
		CreatedBy: teacher.ID,
		Approved:  true,
		Status:    models.AssessmentStatusActive,
	}
	require.NoError(t, env.db.Create(&assessment).Error)

	// No questions seeded: total is zero, percentage must not divide by it.
	status, body := env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": 12345, "selected_option_id": 1},
		},
	})
	require.Equal(t, 200, status)
	assert.Equal(t, float64(0), body["score"])
	assert.Equal(t, float64(0), body["totalMarks"])
	assert.Equal(t, float64(0), body["percentage"])
}

func TestGetSubmissionResult(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, group := env.createSubjectAndGroup(t)
	teacher, _ := env.createUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	_, studentToken := env.createUser(t, "Student", "student@example.com", models.RoleStudent)
	_, otherToken := env.createUser(t, "Other", "other@example.com", models.RoleStudent)
	assessment, questions := env.createAssessment(t, subject, group, teacher.ID, true)

	resultPath := fmt.Sprintf("/api/assessments/%d/result", assessment.ID)

	status, _ := env.request(t, "GET", resultPath, studentToken, nil)
	assert.Equal(t, 404, status)

	status, _ = env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].CorrectID},
		},
	})
	require.Equal(t, 200, status)

	status, body := env.request(t, "GET", resultPath, studentToken, nil)
	require.Equal(t, 200, status)
	assert.NotNil(t, body)

	// Other students cannot see this student's result.
	status, _ = env.request(t, "GET", resultPath, otherToken, nil)
	assert.Equal(t, 404, status)

	// Parents have no result route at all.
	_, parentToken := env.createUser(t, "Parent", "parent@example.com", models.RoleParent)
	status, _ = env.request(t, "GET", resultPath, parentToken, nil)
	assert.Equal(t, 403, status)
}

func TestGradeSubmissionOwnership(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, group := env.createSubjectAndGroup(t)
	teacher, teacherToken := env.createUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	_, otherTeacherToken := env.createUser(t, "Other Teacher", "other@example.com", models.RoleTeacher)
	_, adminToken := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	student, studentToken := env.createUser(t, "Student", "student@example.com", models.RoleStudent)
	assessment, questions := env.createAssessment(t, subject, group, teacher.ID, true)

	status, _ := env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].WrongID},
		},
	})
	require.Equal(t, 200, status)

	var submission models.Submission
	require.NoError(t, env.db.Where("student_id = ? AND assessment_id = ?", student.ID, assessment.ID).
		First(&submission).Error)

	gradePath := fmt.Sprintf("/api/submissions/%d/grade", submission.ID)

	// A teacher who does not own the assessment cannot grade it.
	status, _ = env.request(t, "PUT", gradePath, otherTeacherToken, map[string]interface{}{"score": 1})
	assert.Equal(t, 404, status)

	status, _ = env.request(t, "PUT", gradePath, teacherToken, map[string]interface{}{"score": -1})
	assert.Equal(t, 400, status)

	status, _ = env.request(t, "PUT", gradePath, teacherToken, map[string]interface{}{"score": 2})
	require.Equal(t, 200, status)

	require.NoError(t, env.db.First(&submission, submission.ID).Error)
	assert.Equal(t, 2, submission.Score)
	require.NotNil(t, submission.GradedAt)

	// Admins can override regardless of ownership.
	status, _ = env.request(t, "PUT", gradePath, adminToken, map[string]interface{}{"score": 3})
	assert.Equal(t, 200, status)

	// Resubmission clears the grade.
	status, _ = env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].CorrectID},
		},
	})
	require.Equal(t, 200, status)
	// Reload into a fresh struct: gorm leaves an already-set pointer field
	// untouched when the column comes back NULL.
	var resubmitted models.Submission
	require.NoError(t, env.db.First(&resubmitted, submission.ID).Error)
	assert.Nil(t, resubmitted.GradedAt)
}

func TestGetCorrectAnswersAndSubmissionList(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, group := env.createSubjectAndGroup(t)
	teacher, teacherToken := env.createUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	_, studentToken := env.createUser(t, "Student", "student@example.com", models.RoleStudent)
	assessment, questions := env.createAssessment(t, subject, group, teacher.ID, true)

	status, _ := env.request(t, "POST", submitPath(assessment.ID), studentToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected_option_id": questions[0].CorrectID},
		},
	})
	require.Equal(t, 200, status)

	// Correct answers are never disclosed to students.
	status, _ = env.request(t, "GET",
		fmt.Sprintf("/api/assessments/%d/correct-answers", assessment.ID), studentToken, nil)
	assert.Equal(t, 403, status)

	status, body := env.request(t, "GET",
		fmt.Sprintf("/api/assessments/%d/correct-answers", assessment.ID), teacherToken, nil)
	require.Equal(t, 200, status)
	answers, ok := body["correctAnswers"].([]interface{})
	require.True(t, ok)
	assert.Len(t, answers, 2)

	status, body = env.request(t, "GET",
		fmt.Sprintf("/api/assessments/%d/submissions", assessment.ID), teacherToken, nil)
	require.Equal(t, 200, status)
	submissions, ok := body["submissions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, submissions, 1)

	// Students are not allowed on the roster endpoint.
	status, _ = env.request(t, "GET",
		fmt.Sprintf("/api/assessments/%d/submissions", assessment.ID), studentToken, nil)
	assert.Equal(t, 403, status)
}
