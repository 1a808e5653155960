package graph

import (
	"context"

	"socialgraph/internal/models"
	"socialgraph/internal/service"

	"github.com/go-viper/mapstructure/v2"
)

type mutationResolver func(ctx context.Context, args map[string]interface{}) (any, error)

// Services are the write paths behind the mutation root.
type Services struct {
	Users         *service.UserService
	Posts         *service.PostService
	Profiles      *service.ProfileService
	Subscriptions *service.SubscriptionService
}

func (s Services) resolvers() map[string]mutationResolver {
	m := map[string]mutationResolver{}
	if s.Users != nil {
		m["createUser"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			var in service.CreateUserInput
			if err := decodeInput(args["dto"], &in); err != nil {
				return nil, err
			}
			return record(s.Users.CreateUser(ctx, in))
		}
		m["changeUser"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			var in service.ChangeUserInput
			if err := decodeInput(args["dto"], &in); err != nil {
				return nil, err
			}
			return record(s.Users.ChangeUser(ctx, stringArg(args, "id"), in))
		}
		m["deleteUser"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			return deleted(s.Users.DeleteUser(ctx, stringArg(args, "id")))
		}
	}
	if s.Posts != nil {
		m["createPost"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			var in service.CreatePostInput
			if err := decodeInput(args["dto"], &in); err != nil {
				return nil, err
			}
			return record(s.Posts.CreatePost(ctx, in))
		}
		m["changePost"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			var in service.ChangePostInput
			if err := decodeInput(args["dto"], &in); err != nil {
				return nil, err
			}
			return record(s.Posts.ChangePost(ctx, stringArg(args, "id"), in))
		}
		m["deletePost"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			return deleted(s.Posts.DeletePost(ctx, stringArg(args, "id")))
		}
	}
	if s.Profiles != nil {
		m["createProfile"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			var in service.CreateProfileInput
			if err := decodeInput(args["dto"], &in); err != nil {
				return nil, err
			}
			return record(s.Profiles.CreateProfile(ctx, in))
		}
		m["changeProfile"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			var in service.ChangeProfileInput
			if err := decodeInput(args["dto"], &in); err != nil {
				return nil, err
			}
			return record(s.Profiles.ChangeProfile(ctx, stringArg(args, "id"), in))
		}
		m["deleteProfile"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			return deleted(s.Profiles.DeleteProfile(ctx, stringArg(args, "id")))
		}
	}
	if s.Subscriptions != nil {
		m["subscribeTo"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			return record(s.Subscriptions.SubscribeTo(ctx, stringArg(args, "userId"), stringArg(args, "authorId")))
		}
		m["unsubscribeFrom"] = func(ctx context.Context, args map[string]interface{}) (any, error) {
			return deleted(s.Subscriptions.UnsubscribeFrom(ctx, stringArg(args, "userId"), stringArg(args, "authorId")))
		}
	}
	return m
}

// decodeInput copies a coerced input object into a service DTO.
func decodeInput(raw interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return models.NewValidationError("dto: " + err.Error())
	}
	return nil
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

// record keeps a typed nil out of the result tree.
func record[T any](rec *T, err error) (any, error) {
	if err != nil || rec == nil {
		return nil, err
	}
	return rec, nil
}

func deleted(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return true, nil
}
