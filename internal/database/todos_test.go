package database

import "testing"

func TestTodoSortColumnsAllowList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sortBy string
		want   string
	}{
		{"order", "todos.sort_order"},
		{"task_name", "tasks.title"},
		{"project_name", "projects.name"},
		{"scheduled_date", "todos.scheduled_date"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.sortBy, func(t *testing.T) {
			t.Parallel()
			got, ok := todoSortColumns[tt.sortBy]
			if !ok {
				t.Fatalf("expected %q to be sortable", tt.sortBy)
			}
			if got != tt.want {
				t.Errorf("column = %q, want %q", got, tt.want)
			}
		})
	}

	if _, ok := todoSortColumns["todos.sort_order; --"]; ok {
		t.Error("allow-list must reject arbitrary input")
	}
}
