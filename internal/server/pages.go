package server

import (
	"net/http"

	"github.com/raakeshmj/vaultbox/internal/middleware"
)

// handleIndex serves the login page to anonymous visitors and the app
// shell to authenticated ones. Both pages are self-contained; the
// front-end talks to /api from there.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if middleware.GetSession(r.Context()) != nil {
		w.Write([]byte(appPage))
		return
	}
	w.Write([]byte(loginPage))
}

func (s *Server) handleServiceWorker(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write([]byte(serviceWorkerScript))
}

const loginPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>VaultBox</title>
<style>
body{font-family:system-ui,sans-serif;background:var(--bg,#f5f5f5);display:flex;align-items:center;justify-content:center;min-height:100vh;margin:0}
.card{background:#fff;border-radius:8px;box-shadow:0 2px 12px rgba(0,0,0,.12);padding:2rem;width:320px}
h1{font-size:1.25rem;margin:0 0 1rem}
input{width:100%;box-sizing:border-box;padding:.6rem;margin:.4rem 0;border:1px solid #ccc;border-radius:4px}
button{width:100%;padding:.6rem;margin-top:.6rem;border:0;border-radius:4px;background:var(--primary,#4CAF50);color:#fff;cursor:pointer}
.error{color:#c62828;font-size:.85rem;min-height:1.2em}
</style>
</head>
<body>
<div class="card">
<h1>VaultBox</h1>
<input id="password" type="password" placeholder="Password" autofocus>
<div class="error" id="error"></div>
<button id="go">Unlock</button>
</div>
<script>
let lock=null;
async function refreshLock(){
  const r=await fetch('/api/dynamic-lock');
  lock=(await r.json()).uuid;
}
async function login(){
  if(!lock)await refreshLock();
  const r=await fetch('/api/login',{method:'POST',
    headers:{'Content-Type':'application/json','X-Dynamic-Lock':lock},
    body:JSON.stringify({password:document.getElementById('password').value})});
  const d=await r.json();
  if(d.success){
    sessionStorage.setItem('sessionId',d.sessionId);
    sessionStorage.setItem('csrfToken',d.csrfToken);
    location.reload();
    return;
  }
  if(r.status===403&&d.code==='LOCK_INVALID'){await refreshLock();return login();}
  document.getElementById('error').textContent=
    d.code==='LOCKED_OUT'?'Locked out. Retry in '+d.retryAfter+'s.'
    :'Wrong password ('+(d.remainingAttempts??'?')+' attempts left).';
}
document.getElementById('go').onclick=login;
document.getElementById('password').addEventListener('keydown',e=>{if(e.key==='Enter')login();});
refreshLock();setInterval(refreshLock,8000);
if('serviceWorker'in navigator)navigator.serviceWorker.register('/sw.js');
</script>
</body>
</html>`

const appPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>VaultBox</title>
<style>
body{font-family:system-ui,sans-serif;background:#f5f5f5;margin:0}
header{background:var(--primary,#4CAF50);color:#fff;padding:.8rem 1rem;display:flex;justify-content:space-between;align-items:center}
main{max-width:720px;margin:1rem auto;padding:0 1rem}
.entry{background:#fff;border-radius:6px;padding:.8rem;margin:.5rem 0;box-shadow:0 1px 4px rgba(0,0,0,.08)}
button{border:0;border-radius:4px;padding:.4rem .8rem;cursor:pointer}
</style>
</head>
<body>
<header><strong>VaultBox</strong><button id="logout">Log out</button></header>
<main id="content"></main>
<script>
const csrf={'X-CSRF-Token':sessionStorage.getItem('csrfToken'),
            'X-Session-ID':sessionStorage.getItem('sessionId')};
document.getElementById('logout').onclick=async()=>{
  await fetch('/api/logout',{method:'POST'});
  sessionStorage.clear();
  location.reload();
};
async function load(){
  const r=await fetch('/api/items');
  if(r.status===401){location.reload();return;}
  const d=await r.json();
  const el=document.getElementById('content');
  el.innerHTML='';
  for(const it of d.items||[]){
    const div=document.createElement('div');
    div.className='entry';
    div.textContent=it.platform+' / '+it.title;
    el.appendChild(div);
  }
}
load();
</script>
</body>
</html>`

const serviceWorkerScript = `const CACHE='vaultbox-v1';
self.addEventListener('install',e=>{self.skipWaiting();});
self.addEventListener('activate',e=>{e.waitUntil(clients.claim());});
self.addEventListener('fetch',e=>{
  if(e.request.method!=='GET'||e.request.url.includes('/api/'))return;
  e.respondWith(
    fetch(e.request).then(r=>{
      const copy=r.clone();
      caches.open(CACHE).then(c=>c.put(e.request,copy));
      return r;
    }).catch(()=>caches.match(e.request))
  );
});`
