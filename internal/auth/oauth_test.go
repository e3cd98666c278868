package auth

import (
	"testing"

	"kraft/config"

	"go.uber.org/zap"
)

func TestRegistryFromCredentials(t *testing.T) {
	reg := NewRegistry(config.OAuthConfig{
		Google: config.OAuthClient{ClientID: "gid", ClientSecret: "gsecret"},
		Naver:  config.OAuthClient{ClientID: "nid", ClientSecret: "nsecret"},
	}, "http://localhost:8080", zap.NewNop())

	if reg.Empty() {
		t.Fatal("registry should not be empty")
	}
	ids := reg.IDs()
	if len(ids) != 2 || ids[0] != "google" || ids[1] != "naver" {
		t.Fatalf("unexpected provider ids: %v", ids)
	}

	google := reg.Get("google")
	if google == nil {
		t.Fatal("google registration missing")
	}
	if google.Config.RedirectURL != "http://localhost:8080/login/oauth2/code/google" {
		t.Fatalf("unexpected redirect URL: %s", google.Config.RedirectURL)
	}
	if reg.Get("github") != nil {
		t.Fatal("unknown provider should return nil")
	}
}

func TestRegistryEmptyWithoutCredentials(t *testing.T) {
	reg := NewRegistry(config.OAuthConfig{}, "http://localhost:8080", zap.NewNop())
	if !reg.Empty() {
		t.Fatal("registry should be empty without credentials")
	}
	if ids := reg.IDs(); len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}

func TestProviderExtractors(t *testing.T) {
	google := googleProvider(config.OAuthClient{ClientID: "id", ClientSecret: "s"}, "http://localhost")
	info, err := google.extract(map[string]any{
		"sub": "123", "name": "alice", "email": "a@x.com", "picture": "http://pic",
	})
	if err != nil {
		t.Fatalf("google extract: %v", err)
	}
	if info.Name != "alice" || info.Email != "a@x.com" || info.Picture != "http://pic" {
		t.Fatalf("google extract mismatch: %+v", info)
	}
	if info.Attributes["email"] != "a@x.com" {
		t.Fatalf("normalized attributes missing email: %v", info.Attributes)
	}
	if _, err := google.extract(map[string]any{"name": "no-email"}); err == nil {
		t.Fatal("google payload without email should fail")
	}

	naver := naverProvider(config.OAuthClient{ClientID: "id", ClientSecret: "s"}, "http://localhost")
	info, err = naver.extract(map[string]any{
		"resultcode": "00",
		"response": map[string]any{
			"nickname": "bob", "email": "b@y.com", "profile_image": "http://pic2",
		},
	})
	if err != nil {
		t.Fatalf("naver extract: %v", err)
	}
	if info.Name != "bob" || info.Email != "b@y.com" {
		t.Fatalf("naver extract mismatch: %+v", info)
	}
	if _, err := naver.extract(map[string]any{"resultcode": "00"}); err == nil {
		t.Fatal("naver payload without response object should fail")
	}
}
