package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectMultiFile(t *testing.T) {
	tests := []struct {
		request string
		want    bool
	}{
		{"crée une todo list", false},
		{"une application rapide et jolie", false},
		{"a landing page for my bakery", false},
		{"a React dashboard", true},
		{"Node.js server with Express", true},
		{"une app avec une base de données", true},
		{"my side project", true},
		{"un projet Laravel", true},
		{"expose a REST API", true},
		{"FastAPI + PostgreSQL", true},
		{"serveur de chat", true},
		{"nodes and edges drawing", false},
		{"Build a ReactJS todo app", true},
		{"a Vue3 dashboard", true},
		{"two small projects", true},
		{"REST APIs for my shop", true},
		{"deux serveurs de jeu", true},
		{"a blog with several databases", true},
		{"des réponses rapides", false},
		{"a vuelta cycling poster", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.request, func(t *testing.T) {
			assert.Equal(t, tc.want, ExpectMultiFile(tc.request))
		})
	}
}
