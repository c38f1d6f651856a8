package engine

import "testing"

func TestSceneAddGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Player")

	scene.AddGameObject(obj)

	if len(scene.GameObjects) != 1 {
		t.Errorf("Expected 1 GameObject, got %d", len(scene.GameObjects))
	}

	if obj.Scene != scene {
		t.Error("GameObject.Scene not set")
	}
}

func TestSceneFindByUID(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Player")
	scene.AddGameObject(obj)

	if scene.FindByUID(obj.UID) != obj {
		t.Error("FindByUID should return the added GameObject")
	}
	if scene.FindByUID(99999999) != nil {
		t.Error("FindByUID should return nil for non-existent UID")
	}
}

func TestSceneRemoveGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Player")
	scene.AddGameObject(obj)

	scene.RemoveGameObject(obj)

	if len(scene.GameObjects) != 0 {
		t.Errorf("Expected 0 GameObjects, got %d", len(scene.GameObjects))
	}
	if scene.FindByUID(obj.UID) != nil {
		t.Error("Removed GameObject should not be findable by UID")
	}
	if obj.Scene != nil {
		t.Error("Removed GameObject should have Scene cleared")
	}
}

func TestSceneFindByName(t *testing.T) {
	scene := NewScene("Test")
	scene.AddGameObject(NewGameObject("Floor"))
	player := NewGameObject("Player")
	scene.AddGameObject(player)

	if scene.FindByName("Player") != player {
		t.Error("FindByName should return the matching GameObject")
	}
	if scene.FindByName("Missing") != nil {
		t.Error("FindByName should return nil when no match")
	}
}

func TestSceneFindByTag(t *testing.T) {
	scene := NewScene("Test")
	a := NewGameObject("A")
	a.Tags = []string{"crate"}
	b := NewGameObject("B")
	b.Tags = []string{"crate"}
	c := NewGameObject("C")
	scene.AddGameObject(a)
	scene.AddGameObject(b)
	scene.AddGameObject(c)

	crates := scene.FindByTag("crate")
	if len(crates) != 2 {
		t.Errorf("Expected 2 crates, got %d", len(crates))
	}
}

func TestSceneUpdateSkipsChildren(t *testing.T) {
	scene := NewScene("Test")
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")
	parent.AddChild(child)
	scene.AddGameObject(parent)
	scene.AddGameObject(child)

	comp := &countingComponent{}
	child.AddComponent(comp)

	// Children update through their parent, not directly from the scene.
	scene.Update(0.016)
	if comp.updates != 1 {
		t.Errorf("Expected child to update exactly once, got %d", comp.updates)
	}
}
