package trail

import "testing"

func BenchmarkSaveSetRestore(b *testing.B) {
	m := New(WithCapacity(1024, 64))
	handles := make([]Handle[int], 256)
	for i := range handles {
		handles[i] = m.ManageInt(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Save()
		for j, h := range handles {
			if _, err := Set(m, h, i+j); err != nil {
				b.Fatalf("set: %v", err)
			}
		}
		if err := m.Restore(); err != nil {
			b.Fatalf("restore: %v", err)
		}
	}
}

func BenchmarkRepeatedWritesOneLevel(b *testing.B) {
	m := New()
	h := m.ManageInt(0)
	m.Save()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Set(m, h, i); err != nil {
			b.Fatalf("set: %v", err)
		}
	}
}
