package controllers_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduapp/backend/models"
)

func (e *testEnv) createForumQuestion(t *testing.T, token string, subjectID uint) uint {
	t.Helper()
	status, body := e.request(t, "POST", "/api/forum/questions", token, map[string]interface{}{
		"title":      "How do I factor this?",
		"body":       "Stuck on x^2 - 5x + 6.",
		"subject_id": subjectID,
	})
	require.Equal(t, 201, status)
	return uint(body["ID"].(float64))
}

func TestForumQuestionLifecycle(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, _ := env.createSubjectAndGroup(t)
	_, askerToken := env.createUser(t, "Asker", "asker@example.com", models.RoleStudent)
	_, helperToken := env.createUser(t, "Helper", "helper@example.com", models.RoleTeacher)

	questionID := env.createForumQuestion(t, askerToken, subject.ID)

	// subject_id is mandatory on the listing.
	status, _ := env.request(t, "GET", "/api/forum/questions", askerToken, nil)
	assert.Equal(t, 400, status)

	status, answer := env.request(t, "POST",
		fmt.Sprintf("/api/forum/questions/%d/answers", questionID), helperToken,
		map[string]interface{}{"body": "It is (x-2)(x-3)."})
	require.Equal(t, 201, status)
	answerID := uint(answer["ID"].(float64))

	status, _ = env.request(t, "POST",
		fmt.Sprintf("/api/forum/answers/%d/comments", answerID), askerToken,
		map[string]interface{}{"body": "That worked, thanks!"})
	require.Equal(t, 201, status)

	status, body := env.request(t, "GET",
		fmt.Sprintf("/api/forum/questions/%d", questionID), askerToken, nil)
	require.Equal(t, 200, status)
	assert.NotNil(t, body)

	// Answers against a missing question 404.
	status, _ = env.request(t, "POST", "/api/forum/questions/9999/answers", helperToken,
		map[string]interface{}{"body": "Into the void"})
	assert.Equal(t, 404, status)
}

func TestGetQuestionOrdersAnswersWithComments(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, _ := env.createSubjectAndGroup(t)
	_, askerToken := env.createUser(t, "Asker", "asker@example.com", models.RoleStudent)
	_, helperToken := env.createUser(t, "Helper", "helper@example.com", models.RoleStudent)

	questionID := env.createForumQuestion(t, askerToken, subject.ID)

	answers := make([]uint, 3)
	for i, text := range []string{"Popular answer", "Accepted answer", "Plain answer"} {
		status, answer := env.request(t, "POST",
			fmt.Sprintf("/api/forum/questions/%d/answers", questionID), helperToken,
			map[string]interface{}{"body": text})
		require.Equal(t, 201, status)
		answers[i] = uint(answer["ID"].(float64))
	}

	status, _ := env.request(t, "PUT",
		fmt.Sprintf("/api/forum/answers/%d/vote", answers[0]), askerToken,
		map[string]interface{}{"vote": 1})
	require.Equal(t, 200, status)
	status, _ = env.request(t, "PUT",
		fmt.Sprintf("/api/forum/answers/%d/accept", answers[1]), askerToken, nil)
	require.Equal(t, 200, status)
	status, _ = env.request(t, "POST",
		fmt.Sprintf("/api/forum/answers/%d/comments", answers[1]), helperToken,
		map[string]interface{}{"body": "Glad it helped."})
	require.Equal(t, 201, status)

	status, body := env.request(t, "GET",
		fmt.Sprintf("/api/forum/questions/%d", questionID), askerToken, nil)
	require.Equal(t, 200, status)

	question := body["question"].(map[string]interface{})
	loaded := question["Answers"].([]interface{})
	require.Len(t, loaded, 3)

	// Accepted first, then by votes, then oldest.
	first := loaded[0].(map[string]interface{})
	assert.Equal(t, "Accepted answer", first["Body"])
	assert.Equal(t, true, first["IsAccepted"])
	second := loaded[1].(map[string]interface{})
	assert.Equal(t, "Popular answer", second["Body"])
	third := loaded[2].(map[string]interface{})
	assert.Equal(t, "Plain answer", third["Body"])

	comments := first["Comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "Glad it helped.", comments[0].(map[string]interface{})["Body"])
}

func TestAcceptAnswerIsAuthorOnly(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, _ := env.createSubjectAndGroup(t)
	_, askerToken := env.createUser(t, "Asker", "asker@example.com", models.RoleStudent)
	_, helperToken := env.createUser(t, "Helper", "helper@example.com", models.RoleStudent)

	questionID := env.createForumQuestion(t, askerToken, subject.ID)
	status, answer := env.request(t, "POST",
		fmt.Sprintf("/api/forum/questions/%d/answers", questionID), helperToken,
		map[string]interface{}{"body": "Try factoring."})
	require.Equal(t, 201, status)
	answerID := uint(answer["ID"].(float64))

	acceptPath := fmt.Sprintf("/api/forum/answers/%d/accept", answerID)

	status, _ = env.request(t, "PUT", acceptPath, helperToken, nil)
	assert.Equal(t, 403, status)

	status, _ = env.request(t, "PUT", acceptPath, askerToken, nil)
	require.Equal(t, 200, status)

	var stored models.ForumAnswer
	require.NoError(t, env.db.First(&stored, answerID).Error)
	assert.True(t, stored.IsAccepted)
}

func TestVoteAnswer(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, _ := env.createSubjectAndGroup(t)
	_, askerToken := env.createUser(t, "Asker", "asker@example.com", models.RoleStudent)
	_, voterToken := env.createUser(t, "Voter", "voter@example.com", models.RoleStudent)

	questionID := env.createForumQuestion(t, askerToken, subject.ID)
	status, answer := env.request(t, "POST",
		fmt.Sprintf("/api/forum/questions/%d/answers", questionID), askerToken,
		map[string]interface{}{"body": "Self answer."})
	require.Equal(t, 201, status)
	answerID := uint(answer["ID"].(float64))

	votePath := fmt.Sprintf("/api/forum/answers/%d/vote", answerID)

	status, _ = env.request(t, "PUT", votePath, voterToken, map[string]interface{}{"vote": 1})
	require.Equal(t, 200, status)
	status, _ = env.request(t, "PUT", votePath, voterToken, map[string]interface{}{"vote": 1})
	require.Equal(t, 200, status)
	status, _ = env.request(t, "PUT", votePath, voterToken, map[string]interface{}{"vote": -1})
	require.Equal(t, 200, status)

	var stored models.ForumAnswer
	require.NoError(t, env.db.First(&stored, answerID).Error)
	assert.Equal(t, 1, stored.Votes)

	status, _ = env.request(t, "PUT", votePath, voterToken, map[string]interface{}{"vote": 5})
	assert.Equal(t, 400, status)

	status, _ = env.request(t, "PUT", "/api/forum/answers/9999/vote", voterToken, map[string]interface{}{"vote": 1})
	assert.Equal(t, 404, status)
}

func TestUnreadCountTracksViews(t *testing.T) {
	env, _ := newTestEnv(t)
	subject, _ := env.createSubjectAndGroup(t)
	_, askerToken := env.createUser(t, "Asker", "asker@example.com", models.RoleStudent)
	_, readerToken := env.createUser(t, "Reader", "reader@example.com", models.RoleStudent)

	first := env.createForumQuestion(t, askerToken, subject.ID)
	env.createForumQuestion(t, askerToken, subject.ID)

	unreadPath := fmt.Sprintf("/api/forum/unread/%d", subject.ID)

	status, body := env.request(t, "GET", unreadPath, readerToken, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(2), body["unread_count"])

	status, _ = env.request(t, "POST", fmt.Sprintf("/api/forum/questions/%d/read", first), readerToken, nil)
	require.Equal(t, 200, status)

	// Marking read twice is a no-op, not an error.
	status, _ = env.request(t, "POST", fmt.Sprintf("/api/forum/questions/%d/read", first), readerToken, nil)
	require.Equal(t, 200, status)

	status, body = env.request(t, "GET", unreadPath, readerToken, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["unread_count"])
}
