package catalog

import "testing"

func TestLookup(t *testing.T) {
	def, ok := Lookup(UserClicks1h)
	if !ok {
		t.Fatalf("expected %s to be registered", UserClicks1h)
	}
	if def.EntityType != EntityUser {
		t.Fatalf("unexpected entity type: %s", def.EntityType)
	}
	if def.TTLSeconds != 3600 {
		t.Fatalf("unexpected ttl: %d", def.TTLSeconds)
	}

	if _, ok := Lookup("no_such_feature"); ok {
		t.Fatalf("unknown feature must not resolve")
	}
}

func TestOnlineKey(t *testing.T) {
	def, _ := Lookup(UserClicks1h)
	if got := def.OnlineKey("user_7"); got != "feature:user_clicks_1h:user_7" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestForEntityType(t *testing.T) {
	userDefs := ForEntityType(EntityUser)
	if len(userDefs) != 3 {
		t.Fatalf("expected 3 user features, got %d", len(userDefs))
	}
	for _, def := range userDefs {
		if def.EntityType != EntityUser {
			t.Fatalf("feature %s has wrong entity type", def.Name)
		}
	}

	postDefs := ForEntityType(EntityPost)
	if len(postDefs) != 3 {
		t.Fatalf("expected 3 post features, got %d", len(postDefs))
	}

	if len(All()) != len(userDefs)+len(postDefs) {
		t.Fatalf("registry size mismatch")
	}
}

func TestShortWindowTTL(t *testing.T) {
	def, _ := Lookup(PostViews10m)
	if def.TTLSeconds != 600 {
		t.Fatalf("expected 600s ttl for %s, got %d", PostViews10m, def.TTLSeconds)
	}
}
