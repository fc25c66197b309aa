package buffer

import "testing"

func TestPool_Reuse(t *testing.T) {
	p := NewPool()

	a := p.Get(RoleTexture, 100)
	if len(a) != 100 {
		t.Fatalf("len = %d, want 100", len(a))
	}
	if p.Grows(RoleTexture) != 1 {
		t.Fatalf("grows = %d, want 1", p.Grows(RoleTexture))
	}

	b := p.Get(RoleTexture, 50)
	if &a[0] != &b[0] {
		t.Error("smaller request did not reuse block")
	}
	if p.Grows(RoleTexture) != 1 {
		t.Errorf("grows = %d after reuse", p.Grows(RoleTexture))
	}

	c := p.Get(RoleTexture, 1000)
	if len(c) != 1000 || p.Grows(RoleTexture) != 2 {
		t.Errorf("len=%d grows=%d", len(c), p.Grows(RoleTexture))
	}
}

func TestPool_RolesIndependent(t *testing.T) {
	p := NewPool()
	p.Get(RoleVertex, 200)
	if p.Cap(RoleUniformMatrix) != 0 {
		t.Error("role blocks are shared")
	}
	m := p.Get(RoleUniformMatrix, 64)
	v := p.Get(RoleVertex, 64)
	if &m[0] == &v[0] {
		t.Error("roles returned the same block")
	}
}

func TestPool_Steady(t *testing.T) {
	p := NewPool()
	for i := 0; i < 1000; i++ {
		p.Get(RoleGeneric, 4096)
	}
	if p.Grows(RoleGeneric) != 1 {
		t.Errorf("steady-state requests grew %d times", p.Grows(RoleGeneric))
	}
	p.Reset()
	if p.Cap(RoleGeneric) != 0 {
		t.Error("Reset kept block")
	}
	if len(p.Get(RoleGeneric, -1)) != 0 {
		t.Error("negative size should yield empty block")
	}
}

func TestRole_String(t *testing.T) {
	if RoleUniformMatrix.String() != "uniform-matrix" {
		t.Errorf("got %s", RoleUniformMatrix)
	}
}
