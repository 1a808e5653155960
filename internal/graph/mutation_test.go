package graph

import (
	"fmt"
	"testing"

	"socialgraph/internal/models"
	"socialgraph/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutation_CreateThenFetch(t *testing.T) {
	f := setup(t)

	data, resp := f.exec(t, `mutation ($dto: CreateUserInput!) {
		createUser(dto: $dto) { id name balance posts { id } }
	}`, map[string]interface{}{"dto": map[string]interface{}{"name": "alice", "balance": 12.5}})
	require.Empty(t, resp.Errors)
	created := data["createUser"].(map[string]interface{})
	id := created["id"].(string)
	assert.Len(t, id, models.UUIDLength)
	assert.Equal(t, []interface{}{}, created["posts"])

	data, resp = f.exec(t, fmt.Sprintf(`mutation {
		createPost(dto: {title: "hi", content: "there", authorId: %q}) { title author { name } }
		createProfile(dto: {isMale: false, yearOfBirth: 1991, userId: %q, memberTypeId: BUSINESS}) {
			yearOfBirth memberType { id }
		}
	}`, id, id), nil)
	require.Empty(t, resp.Errors)
	post := data["createPost"].(map[string]interface{})
	assert.Equal(t, "alice", post["author"].(map[string]interface{})["name"])
	profile := data["createProfile"].(map[string]interface{})
	assert.Equal(t, 1991.0, profile["yearOfBirth"])
	assert.Equal(t, "BUSINESS", profile["memberType"].(map[string]interface{})["id"])

	data, resp = f.exec(t, fmt.Sprintf(`{ user(id: %q) { name balance posts { title } profile { isMale } } }`, id), nil)
	require.Empty(t, resp.Errors)
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["name"])
	assert.Equal(t, 12.5, user["balance"])
	assert.Len(t, user["posts"], 1)
	assert.Equal(t, false, user["profile"].(map[string]interface{})["isMale"])
}

func TestMutation_NameStoredAsSupplied(t *testing.T) {
	f := setup(t)

	data, resp := f.exec(t, `mutation ($dto: CreateUserInput!) { createUser(dto: $dto) { id } }`,
		map[string]interface{}{"dto": map[string]interface{}{"name": "  Bob ", "balance": 1.5}})
	require.Empty(t, resp.Errors)
	id := data["createUser"].(map[string]interface{})["id"].(string)

	data, resp = f.exec(t, fmt.Sprintf(`{ user(id: %q) { name } }`, id), nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "  Bob ", data["user"].(map[string]interface{})["name"])

	data, resp = f.exec(t, fmt.Sprintf(`mutation { changeUser(id: %q, dto: {name: " carol"}) { name } }`, id), nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, " carol", data["changeUser"].(map[string]interface{})["name"])

	_, resp = f.exec(t, fmt.Sprintf(`mutation { changeUser(id: %q, dto: {name: "   "}) { name } }`, id), nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.CodeValidation, errorCodes(resp)[0])
}

func TestMutation_ChangeKeepsOmittedFields(t *testing.T) {
	f := setup(t)
	u := testutil.CreateUser(t, f.db, "alice", 1)

	data, resp := f.exec(t, fmt.Sprintf(`mutation { changeUser(id: %q, dto: {balance: 7}) { name balance } }`, u.ID), nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, map[string]interface{}{"name": "alice", "balance": 7.0}, data["changeUser"])

	data, resp = f.exec(t, fmt.Sprintf(`mutation { changeUser(id: %q, dto: {name: "bob"}) { id } }`, missingID), nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.CodeNotFound, errorCodes(resp)[0])
	assert.Nil(t, data["changeUser"])
}

func TestMutation_DeleteTwiceIsNotFound(t *testing.T) {
	f := setup(t)
	u := testutil.CreateUser(t, f.db, "alice", 1)
	p := testutil.CreatePost(t, f.db, u.ID, "bye")

	query := fmt.Sprintf(`mutation { deletePost(id: %q) }`, p.ID)
	data, resp := f.exec(t, query, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, true, data["deletePost"])

	data, resp = f.exec(t, query, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.CodeNotFound, errorCodes(resp)[0])
	assert.Nil(t, data["deletePost"])
}

func TestMutation_DeleteUserRemovesDependents(t *testing.T) {
	f := setup(t)
	a := testutil.CreateUser(t, f.db, "a", 1)
	b := testutil.CreateUser(t, f.db, "b", 1)
	testutil.CreatePost(t, f.db, a.ID, "post")
	testutil.CreateProfile(t, f.db, a.ID, models.MemberTypeBasic)
	testutil.Subscribe(t, f.db, b.ID, a.ID)

	_, resp := f.exec(t, fmt.Sprintf(`mutation { deleteUser(id: %q) }`, a.ID), nil)
	require.Empty(t, resp.Errors)

	data, resp := f.exec(t, fmt.Sprintf(`{ posts { id } profiles { id } user(id: %q) { userSubscribedTo { id } } }`, b.ID), nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, []interface{}{}, data["posts"])
	assert.Equal(t, []interface{}{}, data["profiles"])
	assert.Equal(t, []interface{}{}, data["user"].(map[string]interface{})["userSubscribedTo"])
}

func TestMutation_SubscribeUnsubscribe(t *testing.T) {
	f := setup(t)
	u1 := testutil.CreateUser(t, f.db, "u1", 1)
	u2 := testutil.CreateUser(t, f.db, "u2", 1)

	data, resp := f.exec(t, fmt.Sprintf(`mutation {
		subscribeTo(userId: %q, authorId: %q) { id userSubscribedTo { name } }
	}`, u1.ID, u2.ID), nil)
	require.Empty(t, resp.Errors)
	sub := data["subscribeTo"].(map[string]interface{})
	assert.Equal(t, u1.ID, sub["id"])
	assert.Equal(t, []interface{}{map[string]interface{}{"name": "u2"}}, sub["userSubscribedTo"])

	unsubscribe := fmt.Sprintf(`mutation { unsubscribeFrom(userId: %q, authorId: %q) }`, u1.ID, u2.ID)
	data, resp = f.exec(t, unsubscribe, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, true, data["unsubscribeFrom"])

	data, resp = f.exec(t, fmt.Sprintf(`{ user(id: %q) { subscribedToUser { id } } }`, u2.ID), nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, []interface{}{}, data["user"].(map[string]interface{})["subscribedToUser"])

	for i := 0; i < 2; i++ {
		_, resp = f.exec(t, unsubscribe, nil)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, models.CodeNotFound, errorCodes(resp)[0])
	}
}

func TestMutation_RunsInRequestOrder(t *testing.T) {
	f := setup(t)
	u1 := testutil.CreateUser(t, f.db, "u1", 1)
	u2 := testutil.CreateUser(t, f.db, "u2", 1)

	data, resp := f.exec(t, fmt.Sprintf(`mutation {
		first: subscribeTo(userId: %[1]q, authorId: %[2]q) { userSubscribedTo { id } }
		second: unsubscribeFrom(userId: %[1]q, authorId: %[2]q)
		third: subscribeTo(userId: %[1]q, authorId: %[2]q) { id }
		fourth: subscribeTo(userId: %[1]q, authorId: %[2]q) { id }
	}`, u1.ID, u2.ID), nil)

	first := data["first"].(map[string]interface{})
	assert.Len(t, first["userSubscribedTo"], 1)
	assert.Equal(t, true, data["second"])
	assert.NotNil(t, data["third"])
	assert.Nil(t, data["fourth"])

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.CodeConflict, errorCodes(resp)[0])
	assert.Equal(t, "fourth", resp.Errors[0].Path.String())
}

func TestMutation_InputValidation(t *testing.T) {
	f := setup(t)
	u := testutil.CreateUser(t, f.db, "alice", 1)

	cases := map[string]string{
		"bad author uuid": `mutation { createPost(dto: {title: "t", content: "c", authorId: "nope"}) { id } }`,
		"fractional int": fmt.Sprintf(`mutation ($y: Int!) {
			createProfile(dto: {isMale: true, yearOfBirth: $y, userId: %q, memberTypeId: BASIC}) { id }
		}`, u.ID),
		"unknown user": fmt.Sprintf(`mutation { createPost(dto: {title: "t", content: "c", authorId: %q}) { id } }`, missingID),
	}
	vars := map[string]interface{}{"y": 1990.5}

	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			before := f.store.calls()
			_, resp := f.exec(t, query, vars)
			require.NotEmpty(t, resp.Errors)
			if name == "unknown user" {
				assert.Equal(t, models.CodeNotFound, errorCodes(resp)[0])
				return
			}
			assert.Equal(t, models.CodeValidation, errorCodes(resp)[0])
			assert.Equal(t, before, f.store.calls())
		})
	}
}
